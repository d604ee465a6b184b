package consts

const (
	DefaultAvatarURL = "default_avatar.png"
)

const (
	// FeedGlobalSize 全站时间线保留条数
	FeedGlobalSize = 5000
	// FeedUserSize 个人时间线保留条数
	FeedUserSize = 1000
)
