package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Synthesizer turns invitation text into speech via the ElevenLabs API
// and caches the resulting MP3s on disk so each (kid, guest) pair is
// synthesized at most once.
type Synthesizer struct {
	apiKey   string
	voiceID  string
	baseURL  string
	audioDir string
	client   *http.Client
}

// NewSynthesizer creates a new synthesizer writing cached audio to audioDir
func NewSynthesizer(apiKey, voiceID, baseURL, audioDir string) *Synthesizer {
	return &Synthesizer{
		apiKey:   apiKey,
		voiceID:  voiceID,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		audioDir: audioDir,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// InvitationText builds the personalized voice line Rocky reads to a guest
func InvitationText(guestName, birthdayKid string) string {
	return fmt.Sprintf(
		"Привет, %s! Я Лис Рокки из Hello Park. %s приглашает тебя на свой день рождения, чтобы спасти космическую вечеринку! Я жду тебя, и у меня есть для тебя секретное задание!",
		guestName, birthdayKid,
	)
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize returns MP3 audio of the invitation for the given guest and
// kid, serving from the disk cache when available
func (s *Synthesizer) Synthesize(ctx context.Context, guestName, birthdayKid string) ([]byte, error) {
	cachePath := filepath.Join(s.audioDir, cacheFilename(guestName, birthdayKid))

	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	data, err := s.fetch(ctx, InvitationText(guestName, birthdayKid))
	if err != nil {
		return nil, err
	}

	// Cache failures are not fatal; the next request just synthesizes again
	if err := os.MkdirAll(s.audioDir, 0755); err == nil {
		_ = os.WriteFile(cachePath, data, 0644)
	}

	return data, nil
}

// fetch calls the ElevenLabs text-to-speech endpoint
func (s *Synthesizer) fetch(ctx context.Context, text string) ([]byte, error) {
	payload, err := json.Marshal(synthesisRequest{
		Text:    text,
		ModelID: "eleven_multilingual_v2",
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", s.baseURL, s.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("text-to-speech API returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio response: %w", err)
	}
	return data, nil
}

// cacheFilename derives a stable filename from the kid and guest names
func cacheFilename(guestName, birthdayKid string) string {
	sanitize := func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		s = strings.ReplaceAll(s, " ", "_")
		s = strings.ReplaceAll(s, string(os.PathSeparator), "_")
		return s
	}
	return fmt.Sprintf("invite_%s_%s.mp3", sanitize(birthdayKid), sanitize(guestName))
}
