package live

import (
	"Slipboard/internal/pkg/consts"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// 事件类型
const (
	TypeSnapshot = "snapshot"
	TypeLike     = "like"
	TypeComment  = "comment"
	TypeRecount  = "recount"
	TypeDeleted  = "deleted"
	TypeFollow   = "follow"
)

const (
	kindSlip = "slip"
	kindUser = "user"
)

// Event 某个文档的一次已提交变更，Version 随提交单调递增
type Event struct {
	Doc     string          `json:"doc"`
	Version uint64          `json:"version"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// NewEvent 序列化 payload
func NewEvent(doc string, version uint64, typ string, payload any) (Event, error) {
	ev := Event{Doc: doc, Version: version, Type: typ}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return ev, fmt.Errorf("marshal live payload: %w", err)
		}
		ev.Data = data
	}
	return ev, nil
}

func SlipDoc(slipID uint64) string {
	return kindSlip + ":" + strconv.FormatUint(slipID, 10)
}

func UserDoc(userID uint64) string {
	return kindUser + ":" + strconv.FormatUint(userID, 10)
}

// ParseDoc 解析文档标识
func ParseDoc(doc string) (kind string, id uint64, err error) {
	kind, raw, ok := strings.Cut(doc, ":")
	if !ok || (kind != kindSlip && kind != kindUser) {
		return "", 0, fmt.Errorf("unknown live doc %q", doc)
	}
	id, err = strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return "", 0, fmt.Errorf("invalid live doc id %q", doc)
	}
	return kind, id, nil
}

func IsSlipDoc(kind string) bool {
	return kind == kindSlip
}

// Channel 文档对应的 Redis 频道
func Channel(doc string) string {
	return consts.LiveChannelPrefix + doc
}
