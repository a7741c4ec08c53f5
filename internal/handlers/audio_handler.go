package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"partyfox/internal/audio"
)

// AudioHandler serves synthesized voice invitations
type AudioHandler struct {
	synthesizer *audio.Synthesizer
}

// NewAudioHandler creates a new audio handler
func NewAudioHandler(synthesizer *audio.Synthesizer) *AudioHandler {
	return &AudioHandler{synthesizer: synthesizer}
}

type generateAudioRequest struct {
	GuestName   string `json:"guestName"`
	BirthdayKid string `json:"birthdayKid"`
}

// GenerateAudio handles POST /api/generate-audio and streams back MP3 audio
func (h *AudioHandler) GenerateAudio(w http.ResponseWriter, r *http.Request) {
	var req generateAudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	guestName := strings.TrimSpace(req.GuestName)
	birthdayKid := strings.TrimSpace(req.BirthdayKid)
	if guestName == "" || birthdayKid == "" {
		respondWithError(w, http.StatusBadRequest, "guestName and birthdayKid are required", "", nil)
		return
	}

	data, err := h.synthesizer.Synthesize(r.Context(), guestName, birthdayKid)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Voice synthesis failed", "Synthesize failed", err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
