package model

// Employee 员工表 — 对应 employees
// 员工目录由人事模块维护，排班核心只读：
// 参与规则匹配的是当前部门、当前岗位以及持有的角色集合。
type Employee struct {
	EmployeeID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	EmployeeNo   string  `gorm:"type:varchar(30);not null"                      json:"employee_no"`
	Email        string  `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	IsActive     bool    `gorm:"not null;default:true"                          json:"is_active"`
	DepartmentID string  `gorm:"type:uuid;not null"                             json:"department_id"`
	PositionID   *string `gorm:"type:uuid"                                      json:"position_id,omitempty"`
	VersionedModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
	Position   *Position   `gorm:"foreignKey:PositionID;references:PositionID"     json:"position,omitempty"`
	Roles      []Role      `gorm:"many2many:employee_roles;joinForeignKey:EmployeeID;joinReferences:RoleID" json:"roles,omitempty"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// RoleIDs 返回员工持有的角色 id 列表
func (e *Employee) RoleIDs() []string {
	ids := make([]string, 0, len(e.Roles))
	for _, r := range e.Roles {
		ids = append(ids, r.RoleID)
	}
	return ids
}
