package dto

import (
	"github.com/shopspring/decimal"
)

// ImportSlipReq 分享码导入
type ImportSlipReq struct {
	Bookmaker string `json:"bookmaker" binding:"required,max=32"`
	Code      string `json:"code" binding:"required,max=64"`
}

// GenerateSlipReq AI 生成注单
type GenerateSlipReq struct {
	TargetOdds *decimal.Decimal `json:"target_odds" binding:"required"`
	Risk       string           `json:"risk" binding:"omitempty,oneof=safe medium high"`
	Leagues    []string         `json:"leagues" binding:"omitempty,max=10,dive,max=64"`
}

// PageReq 通用分页参数
type PageReq struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=50"`
}

// Normalize 补全默认分页
func (p *PageReq) Normalize() {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = 20
	}
}

// SelectionDTO 单场投注
type SelectionDTO struct {
	HomeTeam  string  `json:"home_team"`
	AwayTeam  string  `json:"away_team"`
	Market    string  `json:"market"`
	Pick      string  `json:"pick"`
	Odds      *string `json:"odds"`
	KickoffAt *string `json:"kickoff_at"`
	League    *string `json:"league"`
}

// RiskDTO 风险标签，读取时计算
type RiskDTO struct {
	Tier        string   `json:"tier"`
	Badges      []string `json:"badges"`
	Label       string   `json:"label"`
	Color       string   `json:"color"`
	Description string   `json:"description"`
}

// SlipDTO 注单返回详情
type SlipDTO struct {
	ID            uint64          `json:"id"`
	UserID        uint64          `json:"user_id"`
	Nickname      string          `json:"nickname"`
	AvatarURL     string          `json:"avatar_url"`
	Source        string          `json:"source"`
	Bookmaker     *string         `json:"bookmaker"`
	BookingCode   *string         `json:"booking_code"`
	TotalOdds     string          `json:"total_odds"`
	Selections    []*SelectionDTO `json:"selections"`
	Risk          RiskDTO         `json:"risk"`
	LikesCount    int             `json:"likes_count"`
	CommentsCount int             `json:"comments_count"`
	IsLiked       bool            `json:"is_liked"`
	IsSaved       bool            `json:"is_saved"`
	Version       uint64          `json:"version"`
	CreatedAt     string          `json:"created_at"`
}

// SlipListDTO 注单分页列表
type SlipListDTO struct {
	List    []*SlipDTO `json:"list"`
	HasMore bool       `json:"has_more"`
}

// SlipSourceDTO 三种来源的统一返回，outcome 为 created 时 slip 有值
type SlipSourceDTO struct {
	Outcome string   `json:"outcome"` // created / not_slip / not_found / no_fixtures
	Message string   `json:"message,omitempty"`
	RawText *string  `json:"raw_text,omitempty"`
	Dropped int      `json:"dropped,omitempty"`
	Slip    *SlipDTO `json:"slip,omitempty"`
}
