package mp3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-faker-file/pkg/generator"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

func init() {
	generator.MustRegister(generator.FamilyMP3, NameOpenAI, func(options map[string]any, logger *zap.Logger) (generator.Strategy, error) {
		var cfg Config
		if err := generator.DecodeOptions(options, &cfg); err != nil {
			return nil, err
		}
		return NewOpenAIGenerator(cfg, logger), nil
	})
}

// 重试退避参数
const (
	retryInitialDelay = 200 * time.Millisecond
	retryMaxDelay     = 5 * time.Second
)

// OpenAIGenerator calls the speech endpoint with the go-openai client.
// Rate limits, server errors and network errors are retried up to
// MaxRetries times with exponential backoff.
type OpenAIGenerator struct {
	cfg    Config
	client *openai.Client
	logger *zap.Logger
}

// NewOpenAIGenerator 创建基于 go-openai 的语音策略
func NewOpenAIGenerator(cfg Config, logger *zap.Logger) *OpenAIGenerator {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIGenerator{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientConfig),
		logger: logger,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, content template.Content, gen *template.Generation) ([]byte, error) {
	text, err := speechText(content, gen)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	start := time.Now()
	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(g.cfg.Model),
		Input:          text,
		Voice:          openai.SpeechVoice(g.cfg.Voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          g.cfg.Speed,
	}

	delay := retryInitialDelay
	for attempt := 0; ; attempt++ {
		audio, err := g.speech(ctx, req)
		if err == nil {
			g.logger.Debug("speech synthesized",
				zap.String("model", g.cfg.Model),
				zap.Int("chars", len(text)),
				zap.Int("bytes", len(audio)),
				zap.Int("attempts", attempt+1),
				zap.Duration("duration", time.Since(start)))
			return audio, nil
		}
		if attempt >= g.cfg.MaxRetries || !retryable(err) {
			return nil, err
		}

		g.logger.Warn("speech request failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay = min(delay*2, retryMaxDelay)
	}
}

func (g *OpenAIGenerator) speech(ctx context.Context, req openai.CreateSpeechRequest) ([]byte, error) {
	resp, err := g.client.CreateSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech response: %w", err)
	}
	return audio, nil
}

// retryable 限流、服务端错误与网络错误可重试
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
