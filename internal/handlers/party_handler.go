package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"partyfox/internal/repository"
	"partyfox/internal/service"
)

// PartyHandler serves the public party API
type PartyHandler struct {
	partyService *service.PartyService
	claimService *service.ClaimService
	shareService *service.ShareService
}

// NewPartyHandler creates a new party handler
func NewPartyHandler(partyService *service.PartyService, claimService *service.ClaimService, shareService *service.ShareService) *PartyHandler {
	return &PartyHandler{
		partyService: partyService,
		claimService: claimService,
		shareService: shareService,
	}
}

type createPartyRequest struct {
	BirthdayKid string   `json:"birthdayKid"`
	Guests      []string `json:"guests"`
	CreatorID   int64    `json:"creatorId"`
}

type createPartyResponse struct {
	PartyID   string `json:"partyId"`
	ShareLink string `json:"shareLink"`
}

// CreateParty handles POST /api/parties
func (h *PartyHandler) CreateParty(w http.ResponseWriter, r *http.Request) {
	var req createPartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	partyID, shareLink, err := h.partyService.CreateParty(req.BirthdayKid, req.Guests, req.CreatorID)
	if err != nil {
		if isValidationError(err) {
			respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to create party", "CreateParty failed", err)
		return
	}

	respondJSON(w, http.StatusCreated, createPartyResponse{PartyID: partyID, ShareLink: shareLink})
}

// GetParty handles GET /api/parties/{partyId}
func (h *PartyHandler) GetParty(w http.ResponseWriter, r *http.Request) {
	partyID := r.PathValue("partyId")

	view, err := h.partyService.GetParty(partyID)
	if errors.Is(err, service.ErrPartyNotFound) {
		respondWithError(w, http.StatusNotFound, "Party not found", "", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get party", "GetParty failed", err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

type claimRequest struct {
	PartyID    string `json:"partyId"`
	GuestName  string `json:"guestName"`
	ClaimantID int64  `json:"claimantId"`
}

// ClaimGuest handles POST /api/claims. A fresh claim and a repeat claim
// both answer ok, so a client that lost the first response can safely
// resubmit.
func (h *PartyHandler) ClaimGuest(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	result, err := h.claimService.ClaimGuest(req.PartyID, req.GuestName, req.ClaimantID)
	if err != nil {
		if isValidationError(err) {
			respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to claim guest", "ClaimGuest failed", err)
		return
	}

	if result == repository.ClaimNotFound {
		respondWithError(w, http.StatusNotFound, "Party or guest not found", "", nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type shareRequest struct {
	Email string `json:"email"`
}

// ShareParty handles POST /api/parties/{partyId}/share
func (h *PartyHandler) ShareParty(w http.ResponseWriter, r *http.Request) {
	partyID := r.PathValue("partyId")

	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	view, err := h.partyService.GetParty(partyID)
	if errors.Is(err, service.ErrPartyNotFound) {
		respondWithError(w, http.StatusNotFound, "Party not found", "", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get party", "ShareParty lookup failed", err)
		return
	}

	err = h.shareService.SendShareLink(r.Context(), req.Email, view.BirthdayKid, h.partyService.ShareLink(partyID))
	if errors.Is(err, service.ErrInvalidEmail) {
		respondWithError(w, http.StatusBadRequest, "Invalid email address", "", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to send email", "ShareParty send failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// isValidationError reports whether err is a client input problem
func isValidationError(err error) bool {
	return errors.Is(err, service.ErrEmptyKidName) ||
		errors.Is(err, service.ErrEmptyGuests) ||
		errors.Is(err, service.ErrEmptyGuest) ||
		errors.Is(err, service.ErrEmptyPartyID) ||
		errors.Is(err, service.ErrEmptyGuestName)
}
