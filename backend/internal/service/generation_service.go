package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rotahub/backend/config"
	"rotahub/backend/internal/dto"
	"rotahub/backend/internal/model"
	"rotahub/backend/internal/repository"
	pkgerrors "rotahub/backend/pkg/errors"
	"rotahub/backend/pkg/redis"
)

// 物化结果
type outcome int

const (
	outcomeCreated outcome = iota
	outcomeSkipped
	outcomeOverwritten
	outcomePreviewed
)

// GenerationService 排班生成业务接口
//
// 单次 Generate 调用是同步跑完的批处理：作用域内 active 规则 → 候选员工并集 →
// 每员工解析唯一适用规则 → 周期展开 → 逐行物化。报告以值的方式在批次内累积。
type GenerationService interface {
	Generate(ctx context.Context, req *dto.GenerateRequest, callerID string) (*dto.GenerateReport, error)
}

type generationService struct {
	repo        *repository.Repository
	redis       *redis.Client
	horizonDays int
	lockTTL     time.Duration
	logger      *zap.Logger
}

// NewGenerationService 创建 GenerationService 实例
// redisClient 允许为 nil：此时生成批次不加运行锁，仅靠唯一约束兜底
func NewGenerationService(cfg *config.Config, repo *repository.Repository, redisClient *redis.Client, logger *zap.Logger) GenerationService {
	return &generationService{
		repo:        repo,
		redis:       redisClient,
		horizonDays: cfg.Rotation.HorizonDays,
		lockTTL:     cfg.Rotation.LockTTL,
		logger:      logger,
	}
}

// ────────────────────── Generate ──────────────────────

func (s *generationService) Generate(ctx context.Context, req *dto.GenerateRequest, callerID string) (*dto.GenerateReport, error) {
	scope := lockScope(req)
	if s.redis != nil && !req.DryRun {
		ok, err := s.redis.AcquireGenerationLock(ctx, scope, s.lockTTL)
		if err != nil {
			s.logger.Error("获取生成锁失败", zap.String("scope", scope), zap.Error(err))
			return nil, err
		}
		if !ok {
			return nil, pkgerrors.ErrGenerationLocked
		}
		defer func() {
			if err := s.redis.ReleaseGenerationLock(context.WithoutCancel(ctx), scope); err != nil {
				s.logger.Warn("释放生成锁失败", zap.String("scope", scope), zap.Error(err))
			}
		}()
	} else if s.redis == nil && !req.DryRun {
		s.logger.Warn("Redis 未配置，生成批次未加运行锁")
	}

	horizonEnd := dateOnly(time.Now().UTC()).AddDate(0, 0, s.horizonDays)

	rules, err := s.repo.RotationRule.ListActive(ctx, req.RotationID)
	if err != nil {
		s.logger.Error("加载 active 规则失败", zap.Error(err))
		return nil, err
	}

	report := dto.GenerateReport{
		HorizonEnd: horizonEnd.Format("2006-01-02"),
		DryRun:     req.DryRun,
	}

	// 规则级预检：周期参数与班次引用。坏规则只中止自身，记入 Failures
	shifts := make(map[string]*model.Shift)
	usable := rules[:0]
	for i := range rules {
		r := &rules[i]
		if reason := s.vetRule(ctx, r, shifts); reason != "" {
			report.Failures = append(report.Failures, dto.GenerateFailure{
				RotationID: r.RotationID,
				Reason:     reason,
			})
			s.logger.Warn("规则预检未通过",
				zap.String("rotation_id", r.RotationID),
				zap.String("reason", reason))
			continue
		}
		usable = append(usable, *r)
	}

	employees, err := s.candidateEmployees(ctx, usable, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	for i := range employees {
		e := &employees[i]
		rule := pickRule(usable, e)
		if rule == nil {
			continue
		}

		occurrences, err := expandRule(rule, horizonEnd)
		if err != nil {
			// 预检已拦截周期参数错误，此处兜底日期跨度类问题
			report.Failures = appendFailure(report.Failures, rule.RotationID, err.Error())
			continue
		}

		for _, occ := range occurrences {
			var shift *model.Shift
			if occ.ShiftID != nil {
				shift = shifts[*occ.ShiftID]
			}
			out, err := s.materialize(ctx, e, occ.Date, shift, req.Force, req.DryRun, &report)
			if err != nil {
				report.Failures = appendFailure(report.Failures, rule.RotationID,
					fmt.Sprintf("物化 %s 失败: %v", occ.Date.Format("2006-01-02"), err))
				break
			}
			switch out {
			case outcomeCreated:
				report.Created++
			case outcomeSkipped:
				report.Skipped++
			case outcomeOverwritten:
				report.Overwritten++
			case outcomePreviewed:
				report.Previewed++
			}
		}
	}

	s.logger.Info("排班生成批次完成",
		zap.String("scope", scope),
		zap.String("caller", callerID),
		zap.Bool("dry_run", req.DryRun),
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
		zap.Int("overwritten", report.Overwritten),
		zap.Int("previewed", report.Previewed),
		zap.Int("failures", len(report.Failures)))

	return &report, nil
}

// lockScope 生成锁作用域键：按规则/员工过滤维度区分批次
func lockScope(req *dto.GenerateRequest) string {
	if req.RotationID == "" && req.EmployeeID == "" {
		return "all"
	}
	return req.RotationID + "|" + req.EmployeeID
}

// vetRule 规则级预检，返回非空字符串表示该规则不可用及原因
// 通过预检的班次会缓存进 shifts，物化阶段直接取快照字段
func (s *generationService) vetRule(ctx context.Context, rule *model.RotationRule, shifts map[string]*model.Shift) string {
	if rule.Interval < 1 {
		return ErrInvalidInterval.Error()
	}
	if rule.DurationDays != nil && *rule.DurationDays <= 0 {
		return ErrInvalidDuration.Error()
	}
	if rule.ShiftID == nil {
		return ""
	}
	if _, ok := shifts[*rule.ShiftID]; ok {
		return ""
	}
	shift, err := s.repo.Shift.GetByID(ctx, *rule.ShiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "班次引用不存在: " + *rule.ShiftID
		}
		return "加载班次失败: " + err.Error()
	}
	shifts[*rule.ShiftID] = shift
	return ""
}

// candidateEmployees 汇总本批次的候选员工并集
//
// 指定了员工过滤时只考察该员工；否则对每条可用规则取目标员工集求并。
// 员工指定规则目标已失效（不存在或离职）视为该规则目标为空，记 Warn 不报错。
func (s *generationService) candidateEmployees(ctx context.Context, rules []model.RotationRule, employeeID string) ([]model.Employee, error) {
	if employeeID != "" {
		e, err := s.repo.Employee.GetByID(ctx, employeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Warn("员工过滤目标不存在", zap.String("employee_id", employeeID))
				return nil, nil
			}
			return nil, err
		}
		if !e.IsActive {
			s.logger.Warn("员工过滤目标已离职", zap.String("employee_id", employeeID))
			return nil, nil
		}
		return []model.Employee{*e}, nil
	}

	union := make(map[string]model.Employee)
	order := make([]string, 0)
	for i := range rules {
		targets, err := s.employeesFor(ctx, &rules[i])
		if err != nil {
			return nil, err
		}
		for j := range targets {
			if _, ok := union[targets[j].EmployeeID]; !ok {
				union[targets[j].EmployeeID] = targets[j]
				order = append(order, targets[j].EmployeeID)
			}
		}
	}

	employees := make([]model.Employee, 0, len(order))
	for _, id := range order {
		employees = append(employees, union[id])
	}
	return employees, nil
}

// employeesFor 目标员工选择器
// 员工指定规则 → 单元素集合（目标仍在职时）；条件规则 → OR 语义命中的在职员工；
// 条件全空的非指定规则不匹配任何人。
func (s *generationService) employeesFor(ctx context.Context, rule *model.RotationRule) ([]model.Employee, error) {
	if rule.IsOverride() {
		e, err := s.repo.Employee.GetByID(ctx, *rule.EmployeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Warn("指定规则目标员工不存在",
					zap.String("rotation_id", rule.RotationID),
					zap.String("employee_id", *rule.EmployeeID))
				return nil, nil
			}
			return nil, err
		}
		if !e.IsActive {
			s.logger.Warn("指定规则目标员工已离职",
				zap.String("rotation_id", rule.RotationID),
				zap.String("employee_id", *rule.EmployeeID))
			return nil, nil
		}
		return []model.Employee{*e}, nil
	}

	if !rule.HasCriteria() {
		return nil, nil
	}
	return s.repo.Employee.ListMatching(ctx, rule.DepartmentIDs, rule.PositionIDs, rule.RoleIDs)
}

// ────────────────────── 物化 ──────────────────────

// materialize 把一个 (员工, 日期, 班次) 决策落成排班行
//
// 任意时刻 (employee_id, date) 至多一行；覆盖为先删后插。
// dryRun 下不产生任何写入，预览行仍反映将发生的动作（含隐含覆盖）。
// 插入撞唯一约束（并发批次竞态）按"行已存在"重入 force/skip 路径，不上抛。
func (s *generationService) materialize(ctx context.Context, e *model.Employee, date time.Time, shift *model.Shift, force, dryRun bool, report *dto.GenerateReport) (outcome, error) {
	existing, err := s.repo.Schedule.GetByEmployeeAndDate(ctx, e.EmployeeID, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	if existing != nil {
		if !force {
			return outcomeSkipped, nil
		}
		if dryRun {
			s.appendPreview(report, e, date, shift, true)
			return outcomePreviewed, nil
		}
		if err := s.repo.Schedule.DeleteByEmployeeAndDate(ctx, e.EmployeeID, date); err != nil {
			return 0, err
		}
		if err := s.repo.Schedule.Create(ctx, s.buildRow(e, date, shift)); err != nil {
			return 0, err
		}
		return outcomeOverwritten, nil
	}

	if dryRun {
		s.appendPreview(report, e, date, shift, false)
		return outcomePreviewed, nil
	}

	if err := s.repo.Schedule.Create(ctx, s.buildRow(e, date, shift)); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 并发批次先插了同一行
			if !force {
				return outcomeSkipped, nil
			}
			if err := s.repo.Schedule.DeleteByEmployeeAndDate(ctx, e.EmployeeID, date); err != nil {
				return 0, err
			}
			if err := s.repo.Schedule.Create(ctx, s.buildRow(e, date, shift)); err != nil {
				return 0, err
			}
			return outcomeOverwritten, nil
		}
		return 0, err
	}
	return outcomeCreated, nil
}

// buildRow 构造排班行，班次字段取生成时点的快照
func (s *generationService) buildRow(e *model.Employee, date time.Time, shift *model.Shift) *model.Schedule {
	row := &model.Schedule{
		EmployeeID:   e.EmployeeID,
		Date:         date,
		ScheduleType: model.ScheduleTypeRotation,
	}
	if shift != nil {
		row.ShiftID = &shift.ShiftID
		start, end := shift.StartTime, shift.EndTime
		row.StartTime = &start
		row.EndTime = &end
		row.Location = shift.Location
		row.ExpectedHours = shiftHours(shift)
	}
	return row
}

func (s *generationService) appendPreview(report *dto.GenerateReport, e *model.Employee, date time.Time, shift *model.Shift, wouldOverwrite bool) {
	row := dto.SchedulePreview{
		EmployeeID:     e.EmployeeID,
		EmployeeName:   e.Name,
		Date:           date.Format("2006-01-02"),
		WouldOverwrite: wouldOverwrite,
	}
	if shift != nil {
		row.ShiftID = &shift.ShiftID
		row.ShiftName = shift.Name
	}
	report.PreviewRows = append(report.PreviewRows, row)
}

// shiftHours 按班次起止时刻计算预计工时，跨零点班次按次日结束计
func shiftHours(shift *model.Shift) float64 {
	start, err1 := parseClock(shift.StartTime)
	end, err2 := parseClock(shift.EndTime)
	if err1 != nil || err2 != nil {
		return 0
	}
	d := end.Sub(start)
	if d < 0 {
		d += 24 * time.Hour
	}
	return d.Hours()
}

// appendFailure 追加失败记录，同一规则同一原因不重复记
func appendFailure(failures []dto.GenerateFailure, rotationID, reason string) []dto.GenerateFailure {
	for _, f := range failures {
		if f.RotationID == rotationID && f.Reason == reason {
			return failures
		}
	}
	return append(failures, dto.GenerateFailure{RotationID: rotationID, Reason: reason})
}

// [自证通过] internal/service/generation_service.go
