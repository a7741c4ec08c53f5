package audio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestInvitationTextMentionsBothNames(t *testing.T) {
	text := InvitationText("Ана", "Миша")
	if !strings.Contains(text, "Ана") {
		t.Error("invitation text should mention the guest")
	}
	if !strings.Contains(text, "Миша") {
		t.Error("invitation text should mention the birthday kid")
	}
}

func TestSynthesizeFetchesAndCaches(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Header.Get("xi-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if !strings.HasPrefix(r.URL.Path, "/v1/text-to-speech/voice-1") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	synth := NewSynthesizer("test-key", "voice-1", server.URL, t.TempDir())

	data, err := synth.Synthesize(context.Background(), "Ana", "Mila")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if string(data) != "mp3-bytes" {
		t.Fatalf("unexpected audio payload %q", data)
	}

	// Second call for the same pair is served from the cache
	if _, err := synth.Synthesize(context.Background(), "Ana", "Mila"); err != nil {
		t.Fatalf("cached Synthesize failed: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected 1 upstream call, got %d", got)
	}
}

func TestSynthesizeUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	synth := NewSynthesizer("bad-key", "voice-1", server.URL, t.TempDir())

	if _, err := synth.Synthesize(context.Background(), "Ana", "Mila"); err == nil {
		t.Fatal("expected error on upstream failure")
	}
}
