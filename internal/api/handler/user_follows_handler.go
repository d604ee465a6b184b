package handler

import (
	"Slipboard/internal/pkg/response"
	"Slipboard/internal/pkg/util"
	"Slipboard/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserFollowHandler struct {
	userFollowSvc service.UserFollowService
}

func NewUserFollowHandler(userFollowSvc service.UserFollowService) *UserFollowHandler {
	return &UserFollowHandler{userFollowSvc: userFollowSvc}
}

func (s *UserFollowHandler) GetUserFollowers(c *gin.Context) {
	userId := c.GetUint64("user_id")

	page, pageSize := s.getPagination(c)

	followers, err := s.userFollowSvc.GetUserFollowers(c.Request.Context(), userId, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, followers)
}

func (s *UserFollowHandler) GetUserFollowings(c *gin.Context) {
	userId := c.GetUint64("user_id")

	page, pageSize := s.getPagination(c)

	followings, err := s.userFollowSvc.GetUserFollowing(c.Request.Context(), userId, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, followings)
}

func (s *UserFollowHandler) GetFollowCounts(c *gin.Context) {
	userId, ok := util.ParseUint64Param(c.Param("user_id"))
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	counts, err := s.userFollowSvc.GetFollowCounts(c.Request.Context(), c.GetUint64("user_id"), userId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, counts)
}

// Follow 关注/取消关注
func (s *UserFollowHandler) Follow(c *gin.Context) {
	userId := c.GetUint64("user_id")
	followingId, ok := util.ParseUint64Param(c.Param("following_id"))
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	res, err := s.userFollowSvc.ToggleFollow(c.Request.Context(), userId, followingId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *UserFollowHandler) getPagination(c *gin.Context) (int, int) {
	pageStr := c.DefaultQuery("page", "1")
	pageSizeStr := c.DefaultQuery("page_size", "10")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 || pageSize > 50 {
		pageSize = 10
	}
	return page, pageSize
}
