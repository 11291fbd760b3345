package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spec-kit/assistant-backend/internal/config"
	apperrors "github.com/spec-kit/assistant-backend/pkg/util/errorutil"
)

// VoiceService forwards transcription and synthesis requests to the
// external speech engine. With no engine configured both operations
// surface a configuration error.
type VoiceService struct {
	engineURL string
	client    *http.Client
}

// NewVoiceService builds the client.
func NewVoiceService(cfg config.VoiceConfig) *VoiceService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &VoiceService{
		engineURL: cfg.EngineURL,
		client:    &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a speech engine endpoint is set.
func (s *VoiceService) Configured() bool {
	return s.engineURL != ""
}

// Transcribe sends PCM16 WAV bytes to the engine and returns the text.
func (s *VoiceService) Transcribe(ctx context.Context, wav []byte) (string, error) {
	if !s.Configured() {
		return "", apperrors.NewConfigurationError("voice engine not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.engineURL+"/transcribe", bytes.NewReader(wav))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("speech engine returned status %d", resp.StatusCode)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Text, nil
}

// Synthesize returns WAV audio for the given text.
func (s *VoiceService) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if !s.Configured() {
		return nil, apperrors.NewConfigurationError("voice engine not configured")
	}

	form := url.Values{}
	form.Set("text", text)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.engineURL+"/tts", bytes.NewBufferString(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech engine returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
