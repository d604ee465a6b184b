package handler

import (
	"Slipboard/internal/api/config"
	"Slipboard/internal/pkg/live"
	"Slipboard/internal/pkg/response"
	"Slipboard/internal/pkg/security"
	"Slipboard/internal/pkg/util"
	"Slipboard/internal/service"
	"context"
	"errors"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LiveRecorder 实时订阅指标
type LiveRecorder interface {
	RecordResync(reason string)
	AddLiveSubscribers(delta int)
}

type WsHandler struct {
	liveSvc service.LiveService
	maxDocs int
	opts    live.Options
	rec     LiveRecorder
}

func NewWsHandler(liveSvc service.LiveService, cfg config.LiveConfig, rec LiveRecorder) *WsHandler {
	h := &WsHandler{
		liveSvc: liveSvc,
		maxDocs: cfg.MaxDocs,
		opts: live.Options{
			GapTimeout: time.Duration(cfg.GapTimeout) * time.Second,
			MaxPending: cfg.MaxPending,
		},
		rec: rec,
	}
	if rec != nil {
		h.opts.OnResync = rec.RecordResync
	}
	return h
}

// Connect 订阅注单与用户的实时计数
// GET /api/live?token=...&slips=1,2&users=3
func (s *WsHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, service.UnauthorizedError)
		return
	}
	claims, err := security.Authenticate(c.Request.Context(), token)
	if err != nil {
		log.WarnContext(c.Request.Context(), "WS 鉴权失败", "err", err)
		response.Error(c, service.UnauthorizedError)
		return
	}
	userID := claims.UserID

	docs, ok := s.parseDocs(c)
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// 先订阅再取快照，快照之后的变更都会进入频道
	listener, err := live.Listen(ctx, docs)
	if err != nil {
		log.ErrorContext(ctx, "WS 订阅频道失败", "userID", userID, "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}
	defer func() {
		_ = listener.Close()
	}()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.ErrorContext(ctx, "WS 协议升级失败", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	log.InfoContext(ctx, "用户 WS 连接已建立", "userID", userID, "docs", len(docs))
	if s.rec != nil {
		s.rec.AddLiveSubscribers(1)
		defer s.rec.AddLiveSubscribers(-1)
	}

	// 读循环：监听客户端主动断开
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(ev live.Event) error {
		data, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteMessage(websocket.TextMessage, data)
	}

	err = live.NewSession(docs, s.liveSvc, send, s.opts).Run(ctx, listener.Events())
	if err != nil && !errors.Is(err, context.Canceled) {
		log.WarnContext(ctx, "WS 会话结束", "userID", userID, "err", err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "resubscribe"),
			time.Now().Add(writeWait))
		return
	}
	log.InfoContext(ctx, "用户 WS 连接已断开", "userID", userID)
}

// parseDocs 至少订阅一个文档，总数不超过上限
func (s *WsHandler) parseDocs(c *gin.Context) ([]string, bool) {
	slips, ok := util.ParseIDList(c.Query("slips"))
	if !ok {
		return nil, false
	}
	users, ok := util.ParseIDList(c.Query("users"))
	if !ok {
		return nil, false
	}

	docs := make([]string, 0, len(slips)+len(users))
	for _, id := range slips {
		docs = append(docs, live.SlipDoc(id))
	}
	for _, id := range users {
		docs = append(docs, live.UserDoc(id))
	}
	if len(docs) == 0 || (s.maxDocs > 0 && len(docs) > s.maxDocs) {
		return nil, false
	}
	return docs, true
}
