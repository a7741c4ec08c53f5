package repository

import (
	"errors"

	"partyfox/internal/models"
)

// ErrDuplicateID is returned by CreateParty when the party id already
// exists. The id generator makes collisions rare but the store still has
// to detect them.
var ErrDuplicateID = errors.New("party id already exists")

// ClaimResult is the outcome of a claim attempt. AlreadyClaimed is a
// normal outcome, not an error: concurrent and resubmitted claims both
// land there.
type ClaimResult int

const (
	// Claimed means this call set the claimant on a previously unclaimed guest.
	Claimed ClaimResult = iota
	// AlreadyClaimed means the guest exists but some call, possibly this
	// claimant's earlier one, claimed it first.
	AlreadyClaimed
	// ClaimNotFound means the party or guest name is unknown. No state changed.
	ClaimNotFound
)

func (r ClaimResult) String() string {
	switch r {
	case Claimed:
		return "claimed"
	case AlreadyClaimed:
		return "already_claimed"
	case ClaimNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// PartyStore is the registry of parties and their guest lists. Services
// receive a store handle; they never reach for a global connection.
//
// Guest names are not unique within a party. ClaimGuest matches the first
// unclaimed guest with the given name in invitation order; callers that
// need stricter matching must disambiguate before calling.
type PartyStore interface {
	// CreateParty stores a party with its ordered guest list. Returns
	// ErrDuplicateID when id is already taken.
	CreateParty(id, birthdayKid string, guestNames []string, creatorID int64) error

	// GetParty returns the party with its guests in invitation order, or
	// (nil, nil) when the id is unknown.
	GetParty(id string) (*models.Party, error)

	// ClaimGuest atomically claims the first unclaimed guest named
	// guestName in the party. Exactly one of two concurrent calls for the
	// same guest observes Claimed; the other observes AlreadyClaimed.
	ClaimGuest(partyID, guestName string, claimantID int64) (ClaimResult, error)

	// ListParties returns the most recently created parties, newest first.
	ListParties(limit int) ([]models.Party, error)
}
