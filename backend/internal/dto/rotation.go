package dto

// ── 轮换规则模块 DTO ──

// CreateRotationRequest 创建轮换规则请求
// EmployeeID 与三组条件集合二选一：EmployeeID 非空即为员工指定规则
type CreateRotationRequest struct {
	Name          string   `json:"name"           binding:"required,min=1,max=100"`
	EmployeeID    *string  `json:"employee_id"    binding:"omitempty,uuid"`
	DepartmentIDs []string `json:"department_ids" binding:"omitempty,dive,uuid"`
	PositionIDs   []string `json:"position_ids"   binding:"omitempty,dive,uuid"`
	RoleIDs       []string `json:"role_ids"       binding:"omitempty,dive,uuid"`
	ShiftID       *string  `json:"shift_id"       binding:"omitempty,uuid"`
	StartDate     string   `json:"start_date"     binding:"required"` // YYYY-MM-DD
	EndDate       *string  `json:"end_date"`
	Frequency     string   `json:"frequency"      binding:"required,oneof=daily weekly biweekly custom"`
	Interval      int      `json:"interval"       binding:"required,min=1"`
	DurationDays  *int     `json:"duration_days"  binding:"omitempty,min=1"`
	IsRecurring   bool     `json:"is_recurring"`
	Priority      string   `json:"priority"       binding:"required,oneof=high medium low"`
}

// UpdateRotationRequest 更新轮换规则请求
type UpdateRotationRequest struct {
	Name          *string  `json:"name"           binding:"omitempty,min=1,max=100"`
	DepartmentIDs []string `json:"department_ids" binding:"omitempty,dive,uuid"`
	PositionIDs   []string `json:"position_ids"   binding:"omitempty,dive,uuid"`
	RoleIDs       []string `json:"role_ids"       binding:"omitempty,dive,uuid"`
	ShiftID       *string  `json:"shift_id"       binding:"omitempty,uuid"`
	StartDate     *string  `json:"start_date"`
	EndDate       *string  `json:"end_date"`
	Frequency     *string  `json:"frequency"      binding:"omitempty,oneof=daily weekly biweekly custom"`
	Interval      *int     `json:"interval"       binding:"omitempty,min=1"`
	DurationDays  *int     `json:"duration_days"  binding:"omitempty,min=1"`
	IsRecurring   *bool    `json:"is_recurring"`
	Priority      *string  `json:"priority"       binding:"omitempty,oneof=high medium low"`
	Status        *string  `json:"status"         binding:"omitempty,oneof=active inactive"`
}

// RotationListRequest 轮换规则列表查询参数
type RotationListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
	PaginationRequest
}

// RotationResponse 轮换规则信息响应
type RotationResponse struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Employee      *EmployeeBrief `json:"employee,omitempty"`
	DepartmentIDs []string       `json:"department_ids,omitempty"`
	PositionIDs   []string       `json:"position_ids,omitempty"`
	RoleIDs       []string       `json:"role_ids,omitempty"`
	Shift         *ShiftBrief    `json:"shift,omitempty"`
	StartDate     string         `json:"start_date"`
	EndDate       *string        `json:"end_date,omitempty"`
	Frequency     string         `json:"frequency"`
	Interval      int            `json:"interval"`
	DurationDays  *int           `json:"duration_days,omitempty"`
	IsRecurring   bool           `json:"is_recurring"`
	Priority      string         `json:"priority"`
	Status        string         `json:"status"`
	CreatedAt     string         `json:"created_at"`
	UpdatedAt     string         `json:"updated_at"`
}

// ── 批量生成 DTO ──

// GenerateRequest 排班生成请求
// RotationID / EmployeeID 均可为空，空表示不过滤
type GenerateRequest struct {
	RotationID string `json:"rotation_id" binding:"omitempty,uuid"`
	EmployeeID string `json:"employee_id" binding:"omitempty,uuid"`
	Force      bool   `json:"force"`
	DryRun     bool   `json:"dry_run"`
}

// GenerateFailure 单条规则的生成失败记录
type GenerateFailure struct {
	RotationID string `json:"rotation_id"`
	Reason     string `json:"reason"`
}

// SchedulePreview 试运行模式下的排班预览行
type SchedulePreview struct {
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name,omitempty"`
	Date           string  `json:"date"`
	ShiftID        *string `json:"shift_id,omitempty"`
	ShiftName      string  `json:"shift_name,omitempty"`
	WouldOverwrite bool    `json:"would_overwrite"`
}

// GenerateReport 排班生成报告
type GenerateReport struct {
	Created     int               `json:"created"`
	Skipped     int               `json:"skipped"`
	Overwritten int               `json:"overwritten"`
	Previewed   int               `json:"previewed"`
	HorizonEnd  string            `json:"horizon_end"`
	DryRun      bool              `json:"dry_run"`
	PreviewRows []SchedulePreview `json:"preview_rows,omitempty"`
	Failures    []GenerateFailure `json:"failures,omitempty"`
}

// [自证通过] internal/dto/rotation.go
