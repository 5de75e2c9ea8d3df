package model

import "time"

// 排班类型
const (
	ScheduleTypeRotation = "rotation"
	ScheduleTypeManual   = "manual"
)

// Schedule 排班结果表 — 对应 schedules
//
// (employee_id, date) 全局唯一，数据库唯一索引兜底。
// StartTime/EndTime/Location 为生成时从班次定义复制的快照，
// 后续班次定义变更不回写已生成的排班。
// 覆盖写入为先删后插，不做部分更新，因此不使用软删除。
type Schedule struct {
	ScheduleID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"        json:"schedule_id"`
	EmployeeID    string    `gorm:"type:uuid;not null;uniqueIndex:uniq_schedule_employee_date" json:"employee_id"`
	Date          time.Time `gorm:"type:date;not null;uniqueIndex:uniq_schedule_employee_date" json:"date"`
	ShiftID       *string   `gorm:"type:uuid"                                             json:"shift_id,omitempty"` // NULL 表示休息日
	StartTime     *string   `gorm:"type:time"                                             json:"start_time,omitempty"`
	EndTime       *string   `gorm:"type:time"                                             json:"end_time,omitempty"`
	ScheduleType  string    `gorm:"type:varchar(20);not null;default:'rotation'"          json:"schedule_type"`
	Location      string    `gorm:"type:varchar(255)"                                     json:"location,omitempty"`
	Notes         string    `gorm:"type:varchar(500)"                                     json:"notes,omitempty"`
	ExpectedHours float64   `gorm:"type:numeric(5,2);not null;default:0"                  json:"expected_hours"`
	BaseModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
	Shift    *Shift    `gorm:"foreignKey:ShiftID;references:ShiftID"       json:"shift,omitempty"`
}

// TableName 指定表名
func (Schedule) TableName() string { return "schedules" }
