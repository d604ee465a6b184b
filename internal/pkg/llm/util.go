package llm

import (
	"Slipboard/internal/api/config"
	"context"
	"errors"
	log "log/slog"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

const contentSensitive = "sensitive"

var (
	ErrNotConfigured  = errors.New("llm client not configured")
	ErrEmptyResponse  = errors.New("llm response is empty")
	ErrContentBlocked = errors.New("llm response blocked by content filter")
)

func readPrompt(file string) string {
	data, err := os.ReadFile(file)
	if err != nil {
		log.Error("读取prompt文件失败", "file", file, "err", err)
		return ""
	}
	return string(data)
}

func fetchModel(ctx context.Context, systemPrompt string, userPrompt string, temp float64) (*llms.ContentResponse, error) {
	if llmClient == nil {
		return nil, ErrNotConfigured
	}
	if err := TextSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer TextSem.Release(1)
	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}
	log.InfoContext(ctx, "正在请求AI大模型", "model", config.Cfg.LLM.TextModel)
	return llmClient.GenerateContent(ctx, messages,
		llms.WithModel(config.Cfg.LLM.TextModel),
		llms.WithTemperature(temp),
	)
}

func fetchModelByPicUrls(ctx context.Context, systemPrompt string, picUrls []string, temp float64) (*llms.ContentResponse, error) {
	if llmClient == nil {
		return nil, ErrNotConfigured
	}
	if err := ImageSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer ImageSem.Release(1)
	contentPart := make([]llms.ContentPart, len(picUrls))
	for i, url := range picUrls {
		contentPart[i] = llms.ImageURLPart(url)
	}

	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: contentPart,
		},
	}
	log.InfoContext(ctx, "正在请求AI大模型", "model", config.Cfg.LLM.VisionModel)
	return llmClient.GenerateContent(ctx, messages,
		llms.WithModel(config.Cfg.LLM.VisionModel),
		llms.WithTemperature(temp),
	)
}

// firstContent 取第一个候选回复并去掉 markdown 代码块
func firstContent(resp *llms.ContentResponse) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	if resp.Choices[0].StopReason == contentSensitive {
		return "", ErrContentBlocked
	}
	content := CleanJSON(resp.Choices[0].Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

// CleanJSON 去掉模型回复外层的 ```json 包裹
func CleanJSON(s string) string {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
