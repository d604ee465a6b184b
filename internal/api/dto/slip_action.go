package dto

// CommentCreateReq 创建评论请求
type CommentCreateReq struct {
	SlipID  uint64 `json:"slip_id" binding:"required"`
	Content string `json:"content" binding:"required,max=1000"`
}

// CommentDTO 评论返回详情
type CommentDTO struct {
	ID        uint64 `json:"id"`
	SlipID    uint64 `json:"slip_id"`
	UserID    uint64 `json:"user_id"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// ToggleDTO 点赞/收藏切换结果
type ToggleDTO struct {
	Active     bool   `json:"active"`
	LikesCount int    `json:"likes_count"`
	Version    uint64 `json:"version"`
}

// SlipActionStateDTO 注单交互状态
type SlipActionStateDTO struct {
	LikesCount    int    `json:"likes_count"`
	CommentsCount int    `json:"comments_count"`
	IsLiked       bool   `json:"is_liked"`
	IsSaved       bool   `json:"is_saved"`
	Version       uint64 `json:"version"`
}
