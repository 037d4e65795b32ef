// Package mp3 synthesizes speech for generated text through the OpenAI
// speech endpoint. Two interchangeable strategies use the two OpenAI clients.
package mp3

import (
	"errors"
	"time"

	"github.com/nerdneilsfield/go-faker-file/pkg/template"
)

// 策略注册名
const (
	NameOpenAI   = "openai"
	NameOpenAIV2 = "openai_v2"
)

// ErrEmptyText 没有可朗读的文本
var ErrEmptyText = errors.New("mp3: nothing to synthesize")

// Config 语音合成参数
type Config struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Model      string        `mapstructure:"model"` // tts-1 或 tts-1-hd
	Voice      string        `mapstructure:"voice"`
	Speed      float64       `mapstructure:"speed"`
	Timeout    time.Duration `mapstructure:"timeout"`
	// MaxRetries 限流、5xx 与网络错误的重试次数，两种策略都生效
	MaxRetries int `mapstructure:"max_retries"`
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = "tts-1"
	}
	if c.Voice == "" {
		c.Voice = "alloy"
	}
	if c.Speed == 0 {
		c.Speed = 1.0
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
	return c
}

// speechText 把内容渲染成要朗读的纯文本
func speechText(content template.Content, gen *template.Generation) (string, error) {
	text, err := template.Render(content, gen)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}
