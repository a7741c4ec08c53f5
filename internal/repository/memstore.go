package repository

import (
	"sort"
	"sync"
	"time"

	"partyfox/internal/models"
)

// MemStore is an in-memory PartyStore. It backs tests and zero-config
// runs (DB_TYPE=memory); a single mutex gives ClaimGuest the same
// one-winner guarantee the SQL store gets from its conditional update.
type MemStore struct {
	mu      sync.Mutex
	parties map[string]*models.Party
	nextID  int64
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{
		parties: make(map[string]*models.Party),
		nextID:  1,
	}
}

// CreateParty stores a party with its ordered guest list
func (s *MemStore) CreateParty(id, birthdayKid string, guestNames []string, creatorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.parties[id]; exists {
		return ErrDuplicateID
	}

	party := &models.Party{
		ID:          id,
		BirthdayKid: birthdayKid,
		CreatedBy:   creatorID,
		CreatedAt:   time.Now().UTC(),
		Guests:      make([]models.Guest, 0, len(guestNames)),
	}
	for _, name := range guestNames {
		party.Guests = append(party.Guests, models.Guest{
			ID:   s.nextID,
			Name: name,
		})
		s.nextID++
	}

	s.parties[id] = party
	return nil
}

// GetParty returns a copy of the stored party, or (nil, nil) when unknown
func (s *MemStore) GetParty(id string) (*models.Party, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	party, ok := s.parties[id]
	if !ok {
		return nil, nil
	}
	return copyParty(party), nil
}

// ClaimGuest claims the first unclaimed guest with the given name
func (s *MemStore) ClaimGuest(partyID, guestName string, claimantID int64) (ClaimResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	party, ok := s.parties[partyID]
	if !ok {
		return ClaimNotFound, nil
	}

	found := false
	for i := range party.Guests {
		guest := &party.Guests[i]
		if guest.Name != guestName {
			continue
		}
		found = true
		if guest.ClaimedBy == nil {
			claimedBy := claimantID
			claimedAt := time.Now().UTC()
			guest.ClaimedBy = &claimedBy
			guest.ClaimedAt = &claimedAt
			return Claimed, nil
		}
	}

	if found {
		return AlreadyClaimed, nil
	}
	return ClaimNotFound, nil
}

// ListParties returns the most recently created parties, newest first
func (s *MemStore) ListParties(limit int) ([]models.Party, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parties := make([]*models.Party, 0, len(s.parties))
	for _, party := range s.parties {
		parties = append(parties, party)
	}
	sort.Slice(parties, func(i, j int) bool {
		return parties[i].CreatedAt.After(parties[j].CreatedAt)
	})

	if limit > 0 && len(parties) > limit {
		parties = parties[:limit]
	}

	result := make([]models.Party, 0, len(parties))
	for _, party := range parties {
		result = append(result, *copyParty(party))
	}
	return result, nil
}

// copyParty deep-copies a party so callers can't mutate stored state
func copyParty(party *models.Party) *models.Party {
	copied := *party
	copied.Guests = make([]models.Guest, len(party.Guests))
	copy(copied.Guests, party.Guests)
	for i := range copied.Guests {
		if party.Guests[i].ClaimedBy != nil {
			claimedBy := *party.Guests[i].ClaimedBy
			copied.Guests[i].ClaimedBy = &claimedBy
		}
		if party.Guests[i].ClaimedAt != nil {
			claimedAt := *party.Guests[i].ClaimedAt
			copied.Guests[i].ClaimedAt = &claimedAt
		}
	}
	return &copied
}
