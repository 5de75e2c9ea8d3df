package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"rotahub/backend/internal/model"
)

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[string]*model.Employee
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) add(e *model.Employee) {
	m.employees[e.EmployeeID] = e
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) List(_ context.Context, offset, limit int) ([]model.Employee, int64, error) {
	var result []model.Employee
	for _, e := range m.employees {
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockEmployeeRepo) ListMatching(_ context.Context, departmentIDs, positionIDs, roleIDs model.UUIDArray) ([]model.Employee, error) {
	if len(departmentIDs) == 0 && len(positionIDs) == 0 && len(roleIDs) == 0 {
		return nil, nil
	}
	var result []model.Employee
	for _, e := range m.employees {
		if !e.IsActive {
			continue
		}
		matched := departmentIDs.Contains(e.DepartmentID)
		if !matched && e.PositionID != nil && positionIDs.Contains(*e.PositionID) {
			matched = true
		}
		if !matched {
			for _, rid := range e.RoleIDs() {
				if roleIDs.Contains(rid) {
					matched = true
					break
				}
			}
		}
		if matched {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result, nil
}

// ── Mock 组织目录（部门/岗位/角色） ──

type mockDepartmentRepo struct {
	departments map[string]*model.Department
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{departments: make(map[string]*model.Department)}
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.departments[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) List(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.departments {
		result = append(result, *d)
	}
	return result, nil
}

type mockPositionRepo struct {
	positions map[string]*model.Position
}

func newMockPositionRepo() *mockPositionRepo {
	return &mockPositionRepo{positions: make(map[string]*model.Position)}
}

func (m *mockPositionRepo) GetByID(_ context.Context, id string) (*model.Position, error) {
	if p, ok := m.positions[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPositionRepo) List(_ context.Context) ([]model.Position, error) {
	var result []model.Position
	for _, p := range m.positions {
		result = append(result, *p)
	}
	return result, nil
}

type mockRoleRepo struct {
	roles map[string]*model.Role
}

func newMockRoleRepo() *mockRoleRepo {
	return &mockRoleRepo{roles: make(map[string]*model.Role)}
}

func (m *mockRoleRepo) GetByID(_ context.Context, id string) (*model.Role, error) {
	if r, ok := m.roles[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) List(_ context.Context) ([]model.Role, error) {
	var result []model.Role
	for _, r := range m.roles {
		result = append(result, *r)
	}
	return result, nil
}

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	shifts map[string]*model.Shift
	seq    int
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: make(map[string]*model.Shift)}
}

func (m *mockShiftRepo) Create(_ context.Context, shift *model.Shift) error {
	if shift.ShiftID == "" {
		m.seq++
		shift.ShiftID = fmt.Sprintf("shift-%03d", m.seq)
	}
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, id string) (*model.Shift, error) {
	if s, ok := m.shifts[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) List(_ context.Context, includeInactive bool) ([]model.Shift, error) {
	var result []model.Shift
	for _, s := range m.shifts {
		if !includeInactive && !s.IsActive {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ShiftID < result[j].ShiftID })
	return result, nil
}

func (m *mockShiftRepo) Update(_ context.Context, shift *model.Shift) error {
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.shifts, id)
	return nil
}

// ── Mock RotationRuleRepository ──

type mockRotationRuleRepo struct {
	rules map[string]*model.RotationRule
	seq   int
}

func newMockRotationRuleRepo() *mockRotationRuleRepo {
	return &mockRotationRuleRepo{rules: make(map[string]*model.RotationRule)}
}

func (m *mockRotationRuleRepo) Create(_ context.Context, rule *model.RotationRule) error {
	m.seq++
	if rule.RotationID == "" {
		rule.RotationID = fmt.Sprintf("rot-%03d", m.seq)
	}
	if rule.CreatedAt.IsZero() {
		// 保证稳定的平票裁决次序
		rule.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m.seq) * time.Minute)
	}
	m.rules[rule.RotationID] = rule
	return nil
}

func (m *mockRotationRuleRepo) GetByID(_ context.Context, id string) (*model.RotationRule, error) {
	if r, ok := m.rules[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRotationRuleRepo) List(_ context.Context, status string, offset, limit int) ([]model.RotationRule, int64, error) {
	var result []model.RotationRule
	for _, r := range m.rules {
		if status != "" && r.Status != status {
			continue
		}
		result = append(result, *r)
	}
	sortRulesStable(result)
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockRotationRuleRepo) ListActive(_ context.Context, rotationID string) ([]model.RotationRule, error) {
	var result []model.RotationRule
	for _, r := range m.rules {
		if r.Status != model.RotationStatusActive {
			continue
		}
		if rotationID != "" && r.RotationID != rotationID {
			continue
		}
		result = append(result, *r)
	}
	sortRulesStable(result)
	return result, nil
}

func (m *mockRotationRuleRepo) GetActiveOverride(_ context.Context, employeeID string) (*model.RotationRule, error) {
	var candidates []model.RotationRule
	for _, r := range m.rules {
		if r.Status == model.RotationStatusActive && r.IsOverride() && *r.EmployeeID == employeeID {
			candidates = append(candidates, *r)
		}
	}
	if len(candidates) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	sortRulesStable(candidates)
	return &candidates[0], nil
}

func (m *mockRotationRuleRepo) ListActiveCriteria(_ context.Context) ([]model.RotationRule, error) {
	var result []model.RotationRule
	for _, r := range m.rules {
		if r.Status == model.RotationStatusActive && !r.IsOverride() {
			result = append(result, *r)
		}
	}
	sortRulesStable(result)
	return result, nil
}

func (m *mockRotationRuleRepo) Update(_ context.Context, rule *model.RotationRule) error {
	m.rules[rule.RotationID] = rule
	return nil
}

func (m *mockRotationRuleRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.rules, id)
	return nil
}

// sortRulesStable 与真实仓储一致的次序：created_at 升序、rotation_id 升序
func sortRulesStable(rules []model.RotationRule) {
	sort.Slice(rules, func(i, j int) bool {
		if !rules[i].CreatedAt.Equal(rules[j].CreatedAt) {
			return rules[i].CreatedAt.Before(rules[j].CreatedAt)
		}
		return rules[i].RotationID < rules[j].RotationID
	})
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	schedules map[string]*model.Schedule // key: "employeeID:date"
	seq       int
	// raceOnDates 模拟并发竞态：这些日期首次 Create 返回唯一约束冲突
	raceOnDates map[string]bool
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{
		schedules:   make(map[string]*model.Schedule),
		raceOnDates: make(map[string]bool),
	}
}

func scheduleKey(employeeID string, date time.Time) string {
	return employeeID + ":" + date.Format("2006-01-02")
}

func (m *mockScheduleRepo) Create(_ context.Context, schedule *model.Schedule) error {
	key := scheduleKey(schedule.EmployeeID, schedule.Date)
	if m.raceOnDates[key] {
		// 竞态只发生一次：另一个批次抢先插入了这一行
		delete(m.raceOnDates, key)
		m.schedules[key] = &model.Schedule{
			ScheduleID: "race-" + key,
			EmployeeID: schedule.EmployeeID,
			Date:       schedule.Date,
		}
		return gorm.ErrDuplicatedKey
	}
	if _, exists := m.schedules[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	m.seq++
	if schedule.ScheduleID == "" {
		schedule.ScheduleID = fmt.Sprintf("sch-%04d", m.seq)
	}
	m.schedules[key] = schedule
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.Schedule, error) {
	for _, s := range m.schedules {
		if s.ScheduleID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*model.Schedule, error) {
	if s, ok := m.schedules[scheduleKey(employeeID, date)]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) ListByEmployee(_ context.Context, employeeID string, from, to time.Time) ([]model.Schedule, error) {
	var result []model.Schedule
	for _, s := range m.schedules {
		if s.EmployeeID == employeeID && !s.Date.Before(from) && !s.Date.After(to) {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *mockScheduleRepo) ListByRange(_ context.Context, from, to time.Time) ([]model.Schedule, error) {
	var result []model.Schedule
	for _, s := range m.schedules {
		if !s.Date.Before(from) && !s.Date.After(to) {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].EmployeeID < result[j].EmployeeID
	})
	return result, nil
}

func (m *mockScheduleRepo) DeleteByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) error {
	delete(m.schedules, scheduleKey(employeeID, date))
	return nil
}

func (m *mockScheduleRepo) DeleteByID(_ context.Context, id string) error {
	for key, s := range m.schedules {
		if s.ScheduleID == id {
			delete(m.schedules, key)
			return nil
		}
	}
	return nil
}

// [自证通过] internal/service/mock_repos_test.go
