package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"partyfox/internal/models"
	"partyfox/internal/service"
)

// AdminHandler serves the operator API
type AdminHandler struct {
	partyService *service.PartyService
	passwordHash []byte
	tokenSecret  []byte
}

// NewAdminHandler creates a new admin handler. passwordHash is a bcrypt
// hash from config; when it is empty the login endpoint always rejects.
func NewAdminHandler(partyService *service.PartyService, passwordHash, tokenSecret string) *AdminHandler {
	return &AdminHandler{
		partyService: partyService,
		passwordHash: []byte(passwordHash),
		tokenSecret:  []byte(tokenSecret),
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login handles POST /api/admin/login, minting a 24h bearer token
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	if len(h.passwordHash) == 0 || len(h.tokenSecret) == 0 {
		respondWithError(w, http.StatusUnauthorized, "Admin API not configured", "", nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(req.Password)); err != nil {
		respondWithError(w, http.StatusUnauthorized, "Invalid password", "", nil)
		return
	}

	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.tokenSecret)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to mint token", "Admin token signing failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

type adminPartyView struct {
	ID          string           `json:"id"`
	BirthdayKid string           `json:"birthdayKid"`
	CreatedBy   int64            `json:"createdBy"`
	CreatedAt   time.Time        `json:"createdAt"`
	Guests      []adminGuestView `json:"guests"`
	Claimed     int              `json:"claimed"`
}

type adminGuestView struct {
	Name      string     `json:"name"`
	ClaimedBy *int64     `json:"claimedBy,omitempty"`
	ClaimedAt *time.Time `json:"claimedAt,omitempty"`
}

// ListParties handles GET /api/admin/parties. Unlike the public view this
// one exposes claimant ids; it sits behind RequireAdmin.
func (h *AdminHandler) ListParties(w http.ResponseWriter, r *http.Request) {
	parties, err := h.partyService.ListParties(50)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list parties", "ListParties failed", err)
		return
	}

	views := make([]adminPartyView, 0, len(parties))
	for i := range parties {
		views = append(views, toAdminView(&parties[i]))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"parties": views})
}

func toAdminView(party *models.Party) adminPartyView {
	view := adminPartyView{
		ID:          party.ID,
		BirthdayKid: party.BirthdayKid,
		CreatedBy:   party.CreatedBy,
		CreatedAt:   party.CreatedAt,
		Guests:      make([]adminGuestView, 0, len(party.Guests)),
	}
	for i := range party.Guests {
		guest := &party.Guests[i]
		view.Guests = append(view.Guests, adminGuestView{
			Name:      guest.Name,
			ClaimedBy: guest.ClaimedBy,
			ClaimedAt: guest.ClaimedAt,
		})
		if guest.IsClaimed() {
			view.Claimed++
		}
	}
	return view
}
