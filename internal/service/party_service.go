package service

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"partyfox/internal/models"
	"partyfox/internal/repository"
)

var (
	ErrPartyNotFound = errors.New("party not found")
	ErrEmptyKidName  = errors.New("birthday kid name is required")
	ErrEmptyGuests   = errors.New("at least one guest is required")
	ErrEmptyGuest    = errors.New("guest names must not be empty")
)

// maxIDAttempts bounds retries on party id collisions. Hitting the bound
// means the token space is undersized for the data set, which is a
// deployment problem, not a transient one.
const maxIDAttempts = 5

// PartyService validates and orchestrates party creation and reads
type PartyService struct {
	store   repository.PartyStore
	baseURL string
}

// NewPartyService creates a new party service
func NewPartyService(store repository.PartyStore, baseURL string) *PartyService {
	return &PartyService{
		store:   store,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// CreateParty validates input, generates a fresh party id and stores the
// party. Guest names are not deduplicated; the guest list is taken as-is
// in invitation order. Returns the new party id and its share link.
func (s *PartyService) CreateParty(birthdayKid string, guestNames []string, creatorID int64) (string, string, error) {
	birthdayKid = strings.TrimSpace(birthdayKid)
	if birthdayKid == "" {
		return "", "", ErrEmptyKidName
	}
	if len(guestNames) == 0 {
		return "", "", ErrEmptyGuests
	}

	guests := make([]string, 0, len(guestNames))
	for _, name := range guestNames {
		name = strings.TrimSpace(name)
		if name == "" {
			return "", "", ErrEmptyGuest
		}
		guests = append(guests, name)
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := repository.GeneratePartyID()
		if err != nil {
			return "", "", fmt.Errorf("failed to generate party id: %w", err)
		}

		err = s.store.CreateParty(id, birthdayKid, guests, creatorID)
		if err == nil {
			return id, s.ShareLink(id), nil
		}
		if errors.Is(err, repository.ErrDuplicateID) {
			continue
		}
		return "", "", fmt.Errorf("failed to create party: %w", err)
	}

	// Repeated collisions on a random token are a configuration fault
	return "", "", fmt.Errorf("party id space exhausted after %d attempts", maxIDAttempts)
}

// GetParty returns the public read model of a party
func (s *PartyService) GetParty(partyID string) (*models.PartyView, error) {
	party, err := s.store.GetParty(partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get party: %w", err)
	}
	if party == nil {
		return nil, ErrPartyNotFound
	}
	return party.View(), nil
}

// ListParties returns recent parties with full guest detail. This is the
// operator view; it exposes claimant ids and must stay behind auth.
func (s *PartyService) ListParties(limit int) ([]models.Party, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	parties, err := s.store.ListParties(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}
	return parties, nil
}

// ShareLink builds the deep link the front end resolves back to a party
func (s *PartyService) ShareLink(partyID string) string {
	return fmt.Sprintf("%s/?party=%s", s.baseURL, url.QueryEscape(partyID))
}

// CreateLink builds the link that opens the front end in create mode,
// attributing the eventual party to creatorID
func (s *PartyService) CreateLink(creatorID int64) string {
	return fmt.Sprintf("%s/?creator=%d", s.baseURL, creatorID)
}
