package llm

import (
	"Slipboard/internal/api/config"
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// CommonMiddleware 通用中间件：根据 API 路径自动补全厂商私有参数
type CommonMiddleware struct {
	Base http.RoundTripper
}

func (m *CommonMiddleware) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body == nil || !strings.Contains(req.URL.Path, "chat/completions") {
		return m.Base.RoundTrip(req)
	}

	body, err := io.ReadAll(req.Body)
	if err != nil || len(body) == 0 {
		req.Body = io.NopCloser(bytes.NewBuffer(body))
		return m.Base.RoundTrip(req)
	}

	var data map[string]interface{}
	if err = json.Unmarshal(body, &data); err != nil {
		req.Body = io.NopCloser(bytes.NewBuffer(body))
		return m.Base.RoundTrip(req)
	}

	mode := "disabled"
	if config.Cfg != nil && config.Cfg.LLM.ThinkingMode != "" {
		mode = config.Cfg.LLM.ThinkingMode
	}
	data["thinking"] = map[string]interface{}{
		"type": mode,
	}

	newBody, _ := json.Marshal(data)
	req.Body = io.NopCloser(bytes.NewBuffer(newBody))
	req.ContentLength = int64(len(newBody))

	return m.Base.RoundTrip(req)
}
