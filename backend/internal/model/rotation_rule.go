package model

import "time"

// ── 轮换规则枚举值 ──

// 重复频率
const (
	FrequencyDaily    = "daily"
	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
	FrequencyCustom   = "custom"
)

// 规则优先级
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// 规则状态
const (
	RotationStatusActive   = "active"
	RotationStatusInactive = "inactive"
)

// PriorityWeight 优先级权重，数值越大优先级越高
var PriorityWeight = map[string]int{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// RotationRule 轮换规则表 — 对应 rotation_rules
//
// 两类规则共用一张表：
//   - 员工指定规则：EmployeeID 非空，对该员工绝对生效，条件集合字段被忽略
//   - 条件规则：EmployeeID 为空，三组条件集合（部门/岗位/角色）任一命中即匹配
//
// ShiftID 为空是合法取值，表示该窗口内“休息/无班次”。
type RotationRule struct {
	RotationID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"rotation_id"`
	Name          string     `gorm:"type:varchar(100);not null"                     json:"name"`
	EmployeeID    *string    `gorm:"type:uuid"                                      json:"employee_id,omitempty"`
	DepartmentIDs UUIDArray  `gorm:"type:uuid[]"                                    json:"department_ids,omitempty"`
	PositionIDs   UUIDArray  `gorm:"type:uuid[]"                                    json:"position_ids,omitempty"`
	RoleIDs       UUIDArray  `gorm:"type:uuid[]"                                    json:"role_ids,omitempty"`
	ShiftID       *string    `gorm:"type:uuid"                                      json:"shift_id,omitempty"`
	StartDate     time.Time  `gorm:"type:date;not null"                             json:"start_date"`
	EndDate       *time.Time `gorm:"type:date"                                      json:"end_date,omitempty"`
	Frequency     string     `gorm:"type:varchar(20);not null;default:'daily'"      json:"frequency"` // daily | weekly | biweekly | custom
	Interval      int        `gorm:"type:int;not null;default:1"                    json:"interval"`
	DurationDays  *int       `gorm:"type:int"                                       json:"duration_days,omitempty"`
	IsRecurring   bool       `gorm:"not null;default:true"                          json:"is_recurring"`
	Priority      string     `gorm:"type:varchar(10);not null;default:'medium'"     json:"priority"` // high | medium | low
	Status        string     `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`   // active | inactive
	VersionedModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
	Shift    *Shift    `gorm:"foreignKey:ShiftID;references:ShiftID"       json:"shift,omitempty"`
}

// TableName 指定表名
func (RotationRule) TableName() string { return "rotation_rules" }

// IsOverride 是否为员工指定规则
// EmployeeID 非空时始终按员工指定规则处理，条件集合字段不再参与判定。
func (r *RotationRule) IsOverride() bool {
	return r.EmployeeID != nil && *r.EmployeeID != ""
}

// HasCriteria 三组条件集合是否至少有一组非空
func (r *RotationRule) HasCriteria() bool {
	return len(r.DepartmentIDs) > 0 || len(r.PositionIDs) > 0 || len(r.RoleIDs) > 0
}

// Matches 判断条件规则是否命中员工（三个维度 OR 语义，任一命中即可）。
// 员工指定规则不走此判定；三组条件全空的非指定规则不匹配任何人。
func (r *RotationRule) Matches(e *Employee) bool {
	if r.IsOverride() {
		return *r.EmployeeID == e.EmployeeID
	}
	if r.DepartmentIDs.Contains(e.DepartmentID) {
		return true
	}
	if e.PositionID != nil && r.PositionIDs.Contains(*e.PositionID) {
		return true
	}
	for _, roleID := range e.RoleIDs() {
		if r.RoleIDs.Contains(roleID) {
			return true
		}
	}
	return false
}
