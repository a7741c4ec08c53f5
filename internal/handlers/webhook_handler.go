package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"partyfox/internal/bot"
)

// WebhookHandler receives Telegram webhook updates
type WebhookHandler struct {
	dispatcher *bot.Dispatcher
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(dispatcher *bot.Dispatcher) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher}
}

// HandleUpdate handles POST /telegram/webhook. Telegram retries non-200
// responses, so dispatch failures are logged and swallowed; an update
// whose outbound message failed is not worth replaying.
func (h *WebhookHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var update bot.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Printf("Ignoring malformed webhook payload: %v", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.dispatcher.HandleUpdate(r.Context(), update); err != nil {
		log.Printf("Dispatch failed for update %d: %v", update.UpdateID, err)
	}

	w.WriteHeader(http.StatusOK)
}
