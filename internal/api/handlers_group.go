package api

import "Slipboard/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	SlipHandler       *handler.SlipHandler
	SlipActionHandler *handler.SlipActionHandler
	UserFollowHandler *handler.UserFollowHandler
	SysBoxHandler     *handler.SysBoxHandler
	WSHandler         *handler.WsHandler
}
