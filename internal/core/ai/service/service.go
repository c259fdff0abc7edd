package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	openrouter "kitchen-assistant/internal/core/service"
	"kitchen-assistant/internal/infrastructure/config"
)

// Response AI 回應結構
type Response struct {
	Content string
}

// Service AI 服務
// 統一包裝生成後端：頻率控制、prompt 正規化、逾時控制
type Service struct {
	config      *config.Config
	openRouter  *openrouter.OpenRouterService
	mu          sync.Mutex
	lastRequest time.Time
}

// NewService 創建 AI 服務
func NewService(cfg *config.Config) *Service {
	return &Service{
		config:     cfg,
		openRouter: openrouter.NewOpenRouterService(cfg),
	}
}

// Enabled 生成後端是否可用
func (s *Service) Enabled() bool {
	return s.config.OpenRouter.Enabled && s.config.OpenRouter.APIKey != ""
}

// ProcessRequest 統一對外方法
func (s *Service) ProcessRequest(ctx context.Context, prompt string) (*Response, error) {
	if !s.Enabled() {
		return nil, errors.New("AI service is disabled")
	}

	if err := s.checkRequestRate(); err != nil {
		return nil, err
	}

	// 統一 prompt 格式，去除多餘空白、tab、換行
	prompt = strings.Join(strings.Fields(strings.TrimSpace(prompt)), " ")

	ctx, cancel := context.WithTimeout(ctx, s.config.OpenRouter.Timeout)
	defer cancel()

	content, err := s.openRouter.GenerateResponse(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &Response{Content: content}, nil
}

// checkRequestRate 檢查請求頻率
func (s *Service) checkRequestRate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.config.RateLimit.Enabled && now.Sub(s.lastRequest) < s.config.RateLimit.Window {
		return errors.New("request rate limit exceeded")
	}

	s.lastRequest = now
	return nil
}
