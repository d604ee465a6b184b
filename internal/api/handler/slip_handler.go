package handler

import (
	"Slipboard/internal/api/dto"
	"Slipboard/internal/pkg/response"
	"Slipboard/internal/pkg/util"
	"Slipboard/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SlipHandler struct {
	slipSvc      service.SlipService
	feedSvc      service.FeedService
	maxImageSize int64
}

func NewSlipHandler(slipSvc service.SlipService, feedSvc service.FeedService, maxImageSize int64) *SlipHandler {
	return &SlipHandler{
		slipSvc:      slipSvc,
		feedSvc:      feedSvc,
		maxImageSize: maxImageSize,
	}
}

// ScanSlip 上传注单截图
func (s *SlipHandler) ScanSlip(c *gin.Context) {
	// 多留一些给 multipart 头部
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxImageSize+1<<20)
	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, service.ErrFileTooLarge)
			return
		}
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if file.Size > s.maxImageSize {
		response.Error(c, service.ErrFileTooLarge)
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	res, err := s.slipSvc.ScanSlip(c.Request.Context(), c.GetUint64("user_id"), reader)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ImportSlip 分享码导入
func (s *SlipHandler) ImportSlip(c *gin.Context) {
	var req dto.ImportSlipReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	res, err := s.slipSvc.ImportSlip(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GenerateSlip AI 按目标赔率生成
func (s *SlipHandler) GenerateSlip(c *gin.Context) {
	var req dto.GenerateSlipReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	res, err := s.slipSvc.GenerateSlip(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// DeleteSlip 删除自己的注单
func (s *SlipHandler) DeleteSlip(c *gin.Context) {
	slipID, ok := util.ParseUint64Param(c.Param("slip_id"))
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.slipSvc.DeleteSlip(c.Request.Context(), c.GetUint64("user_id"), slipID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *SlipHandler) GetFeed(c *gin.Context) {
	var page dto.PageReq
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page.Normalize()

	list, err := s.feedSvc.GetFeed(c.Request.Context(), c.GetUint64("user_id"), page.Page, page.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *SlipHandler) GetSlip(c *gin.Context) {
	slipID, ok := util.ParseUint64Param(c.Param("slip_id"))
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	slip, err := s.feedSvc.GetSlip(c.Request.Context(), c.GetUint64("user_id"), slipID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, slip)
}

func (s *SlipHandler) GetUserSlips(c *gin.Context) {
	userID, ok := util.ParseUint64Param(c.Param("user_id"))
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

	list, err := s.feedSvc.GetUserSlips(c.Request.Context(), c.GetUint64("user_id"), userID, page.Page, page.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
