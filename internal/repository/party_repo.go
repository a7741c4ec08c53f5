package repository

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"partyfox/internal/database"
	"partyfox/internal/models"
)

// PartyRepository is the SQL-backed PartyStore
type PartyRepository struct {
	db *database.DB
}

// NewPartyRepository creates a new party repository
func NewPartyRepository(db *database.DB) *PartyRepository {
	return &PartyRepository{db: db}
}

// GeneratePartyID generates a random short party token. 48 random bits
// keep the token short enough for a chat link while making collisions
// negligible; CreateParty still detects them.
func GeneratePartyID() (string, error) {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CreateParty stores a party and its ordered guest list in one transaction
func (r *PartyRepository) CreateParty(id, birthdayKid string, guestNames []string, creatorID int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "INSERT INTO parties (id, birthday_kid, created_by) VALUES (?, ?, ?)"
	if _, err := tx.Exec(query, id, birthdayKid, creatorID); err != nil {
		if r.partyExists(id) {
			return ErrDuplicateID
		}
		return fmt.Errorf("failed to create party: %w", err)
	}

	query = "INSERT INTO guests (party_id, position, name) VALUES (?, ?, ?)"
	for position, name := range guestNames {
		if _, err := tx.Exec(query, id, position, name); err != nil {
			return fmt.Errorf("failed to add guest: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// partyExists reports whether a party row is visible outside the failed
// transaction; used to tell an id collision apart from other insert errors
func (r *PartyRepository) partyExists(id string) bool {
	var count int
	query := "SELECT COUNT(*) FROM parties WHERE id = ?"
	if err := r.db.QueryRow(query, id).Scan(&count); err != nil {
		return false
	}
	return count > 0
}

// GetParty retrieves a party with its guests in invitation order
func (r *PartyRepository) GetParty(id string) (*models.Party, error) {
	query := "SELECT id, birthday_kid, created_by, created_at FROM parties WHERE id = ?"
	party := &models.Party{}
	err := r.db.QueryRow(query, id).Scan(
		&party.ID,
		&party.BirthdayKid,
		&party.CreatedBy,
		&party.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get party: %w", err)
	}

	guests, err := r.getGuests(id)
	if err != nil {
		return nil, err
	}
	party.Guests = guests

	return party, nil
}

func (r *PartyRepository) getGuests(partyID string) ([]models.Guest, error) {
	query := `
		SELECT id, name, claimed_by, claimed_at
		FROM guests
		WHERE party_id = ?
		ORDER BY position ASC, id ASC
	`
	rows, err := r.db.Query(query, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query guests: %w", err)
	}
	defer rows.Close()

	var guests []models.Guest
	for rows.Next() {
		var guest models.Guest
		var claimedBy sql.NullInt64
		var claimedAt sql.NullTime
		if err := rows.Scan(&guest.ID, &guest.Name, &claimedBy, &claimedAt); err != nil {
			return nil, fmt.Errorf("failed to scan guest: %w", err)
		}
		if claimedBy.Valid {
			guest.ClaimedBy = &claimedBy.Int64
		}
		if claimedAt.Valid {
			t := claimedAt.Time
			guest.ClaimedAt = &t
		}
		guests = append(guests, guest)
	}

	return guests, rows.Err()
}

// ClaimGuest claims the first unclaimed guest with the given name using a
// conditional UPDATE. The outer claimed_by IS NULL predicate is what makes
// two simultaneous claimants resolve to one winner: the loser's update
// matches zero rows instead of overwriting. When the party holds several
// unclaimed guests of the same name, a loser retries against the next one;
// each retry means a concurrent claim landed, so the loop terminates.
func (r *PartyRepository) ClaimGuest(partyID, guestName string, claimantID int64) (ClaimResult, error) {
	// The derived table keeps MySQL happy about updating a table that the
	// subquery also reads
	query := `
		UPDATE guests
		SET claimed_by = ?, claimed_at = ?
		WHERE claimed_by IS NULL AND id = (
			SELECT id FROM (
				SELECT id FROM guests
				WHERE party_id = ? AND name = ? AND claimed_by IS NULL
				ORDER BY position ASC, id ASC
				LIMIT 1
			) AS candidate
		)
	`
	for {
		result, err := r.db.Exec(query, claimantID, time.Now().UTC(), partyID, guestName)
		if err != nil {
			return ClaimNotFound, fmt.Errorf("failed to claim guest: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return ClaimNotFound, fmt.Errorf("failed to read rows affected: %w", err)
		}
		if affected > 0 {
			return Claimed, nil
		}

		// Nothing was updated. If an unclaimed namesake still exists, a
		// racer beat us to this candidate; try the next one.
		var unclaimed int
		unclaimedQuery := "SELECT COUNT(*) FROM guests WHERE party_id = ? AND name = ? AND claimed_by IS NULL"
		if err := r.db.QueryRow(unclaimedQuery, partyID, guestName).Scan(&unclaimed); err != nil {
			return ClaimNotFound, fmt.Errorf("failed to check unclaimed guests: %w", err)
		}
		if unclaimed > 0 {
			continue
		}

		// No unclaimed candidates: either every matching guest is claimed
		// or the (party, name) pair doesn't exist
		var count int
		existsQuery := "SELECT COUNT(*) FROM guests WHERE party_id = ? AND name = ?"
		if err := r.db.QueryRow(existsQuery, partyID, guestName).Scan(&count); err != nil {
			return ClaimNotFound, fmt.Errorf("failed to check guest existence: %w", err)
		}
		if count > 0 {
			return AlreadyClaimed, nil
		}
		return ClaimNotFound, nil
	}
}

// ListParties retrieves the most recently created parties with their guests
func (r *PartyRepository) ListParties(limit int) ([]models.Party, error) {
	query := `
		SELECT id, birthday_kid, created_by, created_at
		FROM parties
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query parties: %w", err)
	}
	defer rows.Close()

	var parties []models.Party
	for rows.Next() {
		var party models.Party
		if err := rows.Scan(&party.ID, &party.BirthdayKid, &party.CreatedBy, &party.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan party: %w", err)
		}
		parties = append(parties, party)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range parties {
		guests, err := r.getGuests(parties[i].ID)
		if err != nil {
			return nil, err
		}
		parties[i].Guests = guests
	}

	return parties, nil
}
