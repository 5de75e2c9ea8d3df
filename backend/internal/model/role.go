package model

// Role 角色表 — 对应 roles
// 权限配置由外部权限模块负责，这里只保留 id 级别的归属关系。
type Role struct {
	RoleID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"role_id"`
	Name     string `gorm:"type:varchar(100);not null"                     json:"name"`
	IsActive bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Role) TableName() string { return "roles" }
