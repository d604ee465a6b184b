package service

import (
	"Slipboard/internal/api/dto"
	"Slipboard/internal/model"
	"Slipboard/internal/pkg/betslip"
	"Slipboard/internal/pkg/consts"
	"Slipboard/internal/pkg/minio"
	"time"

	"github.com/jinzhu/copier"
)

const timeLayout = "2006-01-02 15:04:05"

// toModelSlip 规范注单转为持久化模型
func toModelSlip(slip *betslip.Slip) (*model.Slip, error) {
	m := &model.Slip{}
	if err := copier.Copy(m, slip); err != nil {
		return nil, err
	}
	m.Source = string(slip.Provenance)
	m.LikesCount = slip.LikeCount
	return m, nil
}

// toDomainSlip 持久化模型还原为领域对象，用于风险分级
func toDomainSlip(m *model.Slip) *betslip.Slip {
	slip := &betslip.Slip{}
	_ = copier.Copy(slip, m)
	slip.Provenance = betslip.Provenance(m.Source)
	slip.LikeCount = m.LikesCount
	return slip
}

func toRiskDTO(label betslip.RiskLabel) dto.RiskDTO {
	badges := make([]string, 0, len(label.Badges))
	for _, b := range label.Badges {
		badges = append(badges, string(b))
	}
	return dto.RiskDTO{
		Tier:        string(label.Tier),
		Badges:      badges,
		Label:       label.Hint.Label,
		Color:       label.Hint.Color,
		Description: label.Hint.Description,
	}
}

func toSelectionDTO(s *model.SlipSelection) *dto.SelectionDTO {
	out := &dto.SelectionDTO{
		HomeTeam: s.HomeTeam,
		AwayTeam: s.AwayTeam,
		Market:   s.Market,
		Pick:     s.Pick,
		League:   s.League,
	}
	if s.Odds.Valid {
		v := s.Odds.Decimal.String()
		out.Odds = &v
	}
	if s.KickoffAt != nil {
		v := s.KickoffAt.UTC().Format(time.RFC3339)
		out.KickoffAt = &v
	}
	return out
}

// toSlipDTO 风险标签以 now 实时计算
func toSlipDTO(m *model.Slip, now time.Time, liked, saved bool) *dto.SlipDTO {
	out := &dto.SlipDTO{
		ID:            m.ID,
		UserID:        m.UserID,
		Source:        m.Source,
		Bookmaker:     m.Bookmaker,
		BookingCode:   m.BookingCode,
		TotalOdds:     m.TotalOdds.String(),
		Selections:    make([]*dto.SelectionDTO, 0, len(m.Selections)),
		Risk:          toRiskDTO(betslip.Classify(toDomainSlip(m), now)),
		LikesCount:    m.LikesCount,
		CommentsCount: m.CommentsCount,
		IsLiked:       liked,
		IsSaved:       saved,
		Version:       m.Version,
		CreatedAt:     m.CreatedAt.Format(timeLayout),
	}
	for i := range m.Selections {
		out.Selections = append(out.Selections, toSelectionDTO(&m.Selections[i]))
	}

	out.Nickname = m.User.UserDetail.Nickname
	avatar := m.User.UserDetail.AvatarURL
	if avatar == "" {
		avatar = consts.DefaultAvatarURL
	}
	out.AvatarURL = minio.GetPublicURL(avatar)
	return out
}

func toCommentDTO(c *model.SlipComment) *dto.CommentDTO {
	avatar := c.User.UserDetail.AvatarURL
	if avatar == "" {
		avatar = consts.DefaultAvatarURL
	}
	return &dto.CommentDTO{
		ID:        c.ID,
		SlipID:    c.SlipID,
		UserID:    c.UserID,
		Nickname:  c.User.UserDetail.Nickname,
		AvatarURL: minio.GetPublicURL(avatar),
		Content:   c.Content,
		CreatedAt: c.CreatedAt.Format(timeLayout),
	}
}
