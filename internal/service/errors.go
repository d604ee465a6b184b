package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	Unprocessable       = 422
	InternalServerError = 500
	BadGateway          = 502
	ServiceUnavailable  = 503
)

var (
	ErrParamInvalid         = errors.New("参数错误")
	ErrUserNotFound         = errors.New("用户不存在")
	ErrUserFollowSelf       = errors.New("用户不能关注自己")
	ErrFileNotSupported     = errors.New("不支持的文件类型")
	ErrFileTooLarge         = errors.New("文件过大")
	ErrSlipNotFound         = errors.New("注单不存在")
	ErrSysBoxNotFound       = errors.New("系统通知不存在")
	ErrNoValidBets          = errors.New("no valid bets found")
	ErrUnsupportedBookmaker = errors.New("unsupported bookmaker")
	ErrUpstreamMalformed    = errors.New("upstream returned an unreadable response")
	ErrAINoSelections       = errors.New("AI did not return usable selections")
	ErrUpstreamUnavailable  = errors.New("upstream service unavailable")
	ErrServiceMisconfigured = errors.New("service is not configured")
	UnauthorizedError       = errors.New("权限不足")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrUserNotFound:         NotFound,
	ErrUserFollowSelf:       BadRequest,
	ErrFileNotSupported:     BadRequest,
	ErrFileTooLarge:         BadRequest,
	ErrSlipNotFound:         NotFound,
	ErrSysBoxNotFound:       NotFound,
	ErrNoValidBets:          Unprocessable,
	ErrUnsupportedBookmaker: BadRequest,
	ErrUpstreamMalformed:    BadGateway,
	ErrAINoSelections:       BadGateway,
	ErrUpstreamUnavailable:  ServiceUnavailable,
	ErrServiceMisconfigured: InternalServerError,
	UnauthorizedError:       Unauthorized,
	UnExpectedError:         InternalServerError,
}

// CodeOf 按 errors.Is 匹配业务码与对外文案，未登记的错误 ok 为 false
func CodeOf(err error) (code int, message string, ok bool) {
	if code, ok = ErrorMap[err]; ok {
		return code, err.Error(), true
	}
	for sentinel, c := range ErrorMap {
		if errors.Is(err, sentinel) {
			return c, sentinel.Error(), true
		}
	}
	return InternalServerError, UnExpectedError.Error(), false
}
