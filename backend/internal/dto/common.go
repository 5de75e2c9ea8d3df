package dto

// ── 通用简要信息 ──

// DepartmentBrief 部门简要信息
type DepartmentBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PositionBrief 岗位简要信息
type PositionBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoleBrief 角色简要信息
type RoleBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EmployeeBrief 员工简要信息
type EmployeeBrief struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	EmployeeNo string `json:"employee_no"`
}

// ShiftBrief 班次简要信息
type ShiftBrief struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量（含默认值）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// [自证通过] internal/dto/common.go
