package llm

import (
	"context"
	"fmt"
	log "log/slog"
)

// SlipModel 注单识别与生成使用的大模型，返回模型的原始 JSON 文本
type SlipModel struct{}

func NewSlipModel() *SlipModel {
	return &SlipModel{}
}

// Configured 客户端与提示词均已就绪
func (s *SlipModel) Configured() bool {
	return llmClient != nil && slipScanPrompt != "" && slipGeneratePrompt != ""
}

// ScanSlip 识别注单截图
func (s *SlipModel) ScanSlip(ctx context.Context, imageURL string) (string, error) {
	resp, err := fetchModelByPicUrls(ctx, slipScanPrompt, []string{imageURL}, 0.1)
	if err != nil {
		log.ErrorContext(ctx, "注单识别-AI大模型请求失败", "err", err)
		return "", fmt.Errorf("scan slip: %w", err)
	}
	content, err := firstContent(resp)
	if err != nil {
		log.WarnContext(ctx, "注单识别-AI大模型返回数据为空", "err", err)
		return "", err
	}
	return content, nil
}

// GenerateSlip 根据候选赛程生成注单
func (s *SlipModel) GenerateSlip(ctx context.Context, prompt string) (string, error) {
	resp, err := fetchModel(ctx, slipGeneratePrompt, prompt, 0.7)
	if err != nil {
		log.ErrorContext(ctx, "注单生成-AI大模型请求失败", "err", err)
		return "", fmt.Errorf("generate slip: %w", err)
	}
	content, err := firstContent(resp)
	if err != nil {
		log.WarnContext(ctx, "注单生成-AI大模型返回数据为空", "err", err)
		return "", err
	}
	return content, nil
}
