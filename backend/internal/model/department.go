package model

// Department 部门表 — 对应 departments
// 对排班核心而言是外部查找数据，仅以 id 参与规则匹配。
type Department struct {
	DepartmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Description  string `gorm:"type:text"                                      json:"description,omitempty"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }
