package model

// Shift 班次定义表 — 对应 shifts
// 命名时间窗口的静态定义，被轮换规则与排班结果引用。
type Shift struct {
	ShiftID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	StartTime string `gorm:"type:time;not null"                             json:"start_time"` // HH:MM
	EndTime   string `gorm:"type:time;not null"                             json:"end_time"`   // HH:MM
	Capacity  *int   `gorm:"type:int"                                       json:"capacity,omitempty"`
	Location  string `gorm:"type:varchar(255)"                              json:"location,omitempty"`
	IsActive  bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Shift) TableName() string { return "shifts" }
