package service

import (
	"errors"
	"fmt"
	"strings"

	"partyfox/internal/repository"
)

var (
	ErrEmptyPartyID   = errors.New("party id is required")
	ErrEmptyGuestName = errors.New("guest name is required")
)

// ClaimService is the policy layer over the store's conditional claim
// update. It rejects obviously invalid input before touching the store
// and passes the store's tri-state result through unchanged: callers see
// AlreadyClaimed whether the earlier claim came from them or someone else.
type ClaimService struct {
	store repository.PartyStore
}

// NewClaimService creates a new claim service
func NewClaimService(store repository.PartyStore) *ClaimService {
	return &ClaimService{store: store}
}

// ClaimGuest records claimantID as the guest's identity, at most once
func (s *ClaimService) ClaimGuest(partyID, guestName string, claimantID int64) (repository.ClaimResult, error) {
	partyID = strings.TrimSpace(partyID)
	guestName = strings.TrimSpace(guestName)

	if partyID == "" {
		return repository.ClaimNotFound, ErrEmptyPartyID
	}
	if guestName == "" {
		return repository.ClaimNotFound, ErrEmptyGuestName
	}

	result, err := s.store.ClaimGuest(partyID, guestName, claimantID)
	if err != nil {
		return repository.ClaimNotFound, fmt.Errorf("failed to claim guest: %w", err)
	}
	return result, nil
}
