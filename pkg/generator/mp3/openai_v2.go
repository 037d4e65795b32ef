package mp3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-faker-file/pkg/generator"
	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

// streamChunkSize 流式读取音频时的块大小
const streamChunkSize = 32 * 1024

func init() {
	generator.MustRegister(generator.FamilyMP3, NameOpenAIV2, func(options map[string]any, logger *zap.Logger) (generator.Strategy, error) {
		var cfg Config
		if err := generator.DecodeOptions(options, &cfg); err != nil {
			return nil, err
		}
		return NewOpenAIV2Generator(cfg, logger), nil
	})
}

// OpenAIV2Generator calls the speech endpoint with the official SDK and
// reads the audio body as a stream of chunks.
type OpenAIV2Generator struct {
	cfg    Config
	client openai.Client
	logger *zap.Logger
}

// NewOpenAIV2Generator 创建基于官方 SDK 的语音策略
func NewOpenAIV2Generator(cfg Config, logger *zap.Logger) *OpenAIV2Generator {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIV2Generator{
		cfg:    cfg,
		client: openai.NewClient(opts...),
		logger: logger,
	}
}

func (g *OpenAIV2Generator) Generate(ctx context.Context, content template.Content, gen *template.Generation) ([]byte, error) {
	text, err := speechText(content, gen)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := g.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input:          text,
		Model:          openai.SpeechModel(g.cfg.Model),
		Voice:          openai.AudioSpeechNewParamsVoice(g.cfg.Voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormat("mp3"),
		Speed:          openai.Float(g.cfg.Speed),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}
	defer resp.Body.Close()

	var (
		audio  bytes.Buffer
		chunk  = make([]byte, streamChunkSize)
		chunks int
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			audio.Write(chunk[:n])
			chunks++
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read speech stream: %w", err)
		}
	}

	g.logger.Debug("speech streamed",
		zap.String("model", g.cfg.Model),
		zap.Int("chunks", chunks),
		zap.Int("bytes", audio.Len()),
		zap.Duration("duration", time.Since(start)))
	return audio.Bytes(), nil
}
