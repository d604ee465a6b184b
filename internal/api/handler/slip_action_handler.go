package handler

import (
	"Slipboard/internal/api/dto"
	"Slipboard/internal/pkg/response"
	"Slipboard/internal/pkg/util"
	"Slipboard/internal/service"

	"github.com/gin-gonic/gin"
)

type SlipActionHandler struct {
	actionSvc service.SlipActionService
	feedSvc   service.FeedService
}

func NewSlipActionHandler(actionSvc service.SlipActionService, feedSvc service.FeedService) *SlipActionHandler {
	return &SlipActionHandler{
		actionSvc: actionSvc,
		feedSvc:   feedSvc,
	}
}

// LikeSlip 点赞/取消点赞
func (s *SlipActionHandler) LikeSlip(c *gin.Context) {
	slipID, ok := util.ParseUint64Param(c.Param("slip_id"))
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	res, err := s.actionSvc.ToggleLike(c.Request.Context(), c.GetUint64("user_id"), slipID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// SaveSlip 收藏/取消收藏
func (s *SlipActionHandler) SaveSlip(c *gin.Context) {
	slipID, ok := util.ParseUint64Param(c.Param("slip_id"))
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	res, err := s.actionSvc.ToggleSave(c.Request.Context(), c.GetUint64("user_id"), slipID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetSlipActionState 详情页计数与当前用户状态
func (s *SlipActionHandler) GetSlipActionState(c *gin.Context) {
	slipID, ok := util.ParseUint64Param(c.Param("slip_id"))
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	state, err := s.actionSvc.GetActionState(c.Request.Context(), c.GetUint64("user_id"), slipID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, state)
}

func (s *SlipActionHandler) CreateComment(c *gin.Context) {
	var req dto.CommentCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	comment, err := s.actionSvc.CreateComment(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *SlipActionHandler) GetComments(c *gin.Context) {
	slipID, ok := util.ParseUint64Param(c.Param("slip_id"))
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var page dto.PageReq
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page.Normalize()

	comments, err := s.actionSvc.GetComments(c.Request.Context(), slipID, page.Page, page.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comments)
}

func (s *SlipActionHandler) GetLikedSlips(c *gin.Context) {
	var page dto.PageReq
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page.Normalize()

	list, err := s.feedSvc.GetLikedSlips(c.Request.Context(), c.GetUint64("user_id"), page.Page, page.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *SlipActionHandler) GetSavedSlips(c *gin.Context) {
	var page dto.PageReq
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page.Normalize()

	list, err := s.feedSvc.GetSavedSlips(c.Request.Context(), c.GetUint64("user_id"), page.Page, page.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
