package consts

const (
	SlipCommentDirtyKey = "slip:comment:dirty"
	FixtureDayKey       = "fixture:day:"
	FeedGlobalKey       = "feed:global"
	FeedUserKey         = "feed:user:"
	LiveChannelPrefix   = "live:"
	TokenBlacklistKey   = "token:blacklist:"
)

const (
	FixtureDayLock  = "fixture:day:lock:"
	SlipRecountLock = "lock:slip:recount"
)
