package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// FakeMP3 是模拟服务器返回的音频内容：ID3 头加一个 MPEG 帧头
var FakeMP3 = append([]byte("ID3\x04\x00\x00\x00\x00\x00\x00"), 0xff, 0xfb, 0x90, 0x64, 0x00)

// SpeechRequest 记录收到的语音合成请求
type SpeechRequest struct {
	Path           string
	Authorization  string
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format"`
	Speed          float64 `json:"speed"`
}

// MockOpenAIServer 是一个模拟的 OpenAI 语音合成服务器
type MockOpenAIServer struct {
	Server *httptest.Server
	URL    string
	Audio  []byte
	// FailWith 非零时请求返回该状态码
	FailWith int
	// FailTimes 大于零时只有前 FailTimes 个请求失败
	FailTimes int
	DelayMs   int
	requests []SpeechRequest
	mu       sync.Mutex
}

// NewMockOpenAIServer 创建一个新的模拟 OpenAI 服务器，测试结束时自动关闭
func NewMockOpenAIServer(t *testing.T) *MockOpenAIServer {
	mock := &MockOpenAIServer{Audio: FakeMP3}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "audio/speech") {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": {"message": "not found", "type": "invalid_request_error"}}`))
			return
		}

		var req SpeechRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": {"message": "无法解析请求体", "type": "invalid_request_error"}}`))
			return
		}
		req.Path = r.URL.Path
		req.Authorization = r.Header.Get("Authorization")

		mock.mu.Lock()
		mock.requests = append(mock.requests, req)
		failWith, delay, audio := mock.FailWith, mock.DelayMs, mock.Audio
		if mock.FailTimes > 0 && len(mock.requests) > mock.FailTimes {
			failWith = 0
		}
		mock.mu.Unlock()

		// 模拟延迟
		if delay > 0 {
			time.Sleep(time.Duration(delay) * time.Millisecond)
		}

		// 模拟错误
		if failWith != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(failWith)
			_, _ = w.Write([]byte(`{"error": {"message": "模拟服务器错误", "type": "server_error"}}`))
			return
		}

		w.Header().Set("Content-Type", "audio/mpeg")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(audio)
	}))

	mock.Server = server
	mock.URL = server.URL

	t.Cleanup(func() {
		server.Close()
	})

	return mock
}

// Requests 返回已收到请求的副本
func (m *MockOpenAIServer) Requests() []SpeechRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SpeechRequest(nil), m.requests...)
}

// SetFailure 设置失败状态码，0 表示正常响应
func (m *MockOpenAIServer) SetFailure(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailWith = status
}

// FailFirst 前 n 个请求返回 status，之后正常响应
func (m *MockOpenAIServer) FailFirst(status, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailWith = status
	m.FailTimes = n
}

// SetDelay 设置延迟时间（毫秒）
func (m *MockOpenAIServer) SetDelay(delayMs int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DelayMs = delayMs
}
