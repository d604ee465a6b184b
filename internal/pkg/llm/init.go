package llm

import (
	"Slipboard/internal/api/config"
	log "log/slog"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var llmClient llms.Model

var slipScanPrompt string
var slipGeneratePrompt string

// InitLLM 未配置 url 时跳过初始化，相关接口返回服务未配置
func InitLLM() error {
	cfg := config.Cfg.LLM
	if cfg.URL == "" || cfg.ApiKey == "" {
		log.Warn("AI大模型未配置，注单识别与生成不可用")
		return nil
	}

	llm, err := openai.New(
		openai.WithModel(cfg.TextModel),
		openai.WithToken(cfg.ApiKey),
		openai.WithBaseURL(cfg.URL),
		openai.WithHTTPClient(&http.Client{
			Timeout:   time.Duration(cfg.Timeout) * time.Second,
			Transport: &CommonMiddleware{Base: http.DefaultTransport},
		}),
	)
	if err != nil {
		log.Error("AI大模型初始化失败", "err", err)
		return err
	}

	llmClient = llm

	// 从prompt txt文件中读取prompt
	slipScanPrompt = readPrompt(cfg.PromptsPath.SlipScan)
	slipGeneratePrompt = readPrompt(cfg.PromptsPath.SlipGenerate)

	return nil
}
