package service

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"partyfox/internal/database"
)

// BackupService exports and imports the party registry as JSON. It talks
// to the database directly so claim attribution survives a round trip,
// which the public store contract deliberately doesn't allow.
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// BackupData is the on-disk backup format
type BackupData struct {
	ExportedAt time.Time     `json:"exportedAt"`
	Parties    []BackupParty `json:"parties"`
}

type BackupParty struct {
	ID          string        `json:"id"`
	BirthdayKid string        `json:"birthdayKid"`
	CreatedBy   int64         `json:"createdBy"`
	CreatedAt   time.Time     `json:"createdAt"`
	Guests      []BackupGuest `json:"guests"`
}

type BackupGuest struct {
	Position  int        `json:"position"`
	Name      string     `json:"name"`
	ClaimedBy *int64     `json:"claimedBy,omitempty"`
	ClaimedAt *time.Time `json:"claimedAt,omitempty"`
}

// Export writes all parties and guests to a JSON file
func (s *BackupService) Export(outputPath string) (int, error) {
	backup := BackupData{ExportedAt: time.Now().UTC()}

	rows, err := s.db.Query("SELECT id, birthday_kid, created_by, created_at FROM parties ORDER BY created_at ASC")
	if err != nil {
		return 0, fmt.Errorf("failed to query parties: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var party BackupParty
		if err := rows.Scan(&party.ID, &party.BirthdayKid, &party.CreatedBy, &party.CreatedAt); err != nil {
			return 0, fmt.Errorf("failed to scan party: %w", err)
		}
		backup.Parties = append(backup.Parties, party)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for i := range backup.Parties {
		guests, err := s.exportGuests(backup.Parties[i].ID)
		if err != nil {
			return 0, err
		}
		backup.Parties[i].Guests = guests
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to marshal backup: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return 0, fmt.Errorf("failed to write backup file: %w", err)
	}

	return len(backup.Parties), nil
}

func (s *BackupService) exportGuests(partyID string) ([]BackupGuest, error) {
	rows, err := s.db.Query(
		"SELECT position, name, claimed_by, claimed_at FROM guests WHERE party_id = ? ORDER BY position ASC, id ASC",
		partyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query guests: %w", err)
	}
	defer rows.Close()

	var guests []BackupGuest
	for rows.Next() {
		var guest BackupGuest
		if err := rows.Scan(&guest.Position, &guest.Name, &guest.ClaimedBy, &guest.ClaimedAt); err != nil {
			return nil, fmt.Errorf("failed to scan guest: %w", err)
		}
		guests = append(guests, guest)
	}
	return guests, rows.Err()
}

// Import loads a backup file into the database. When clear is true, all
// existing registry data is removed first.
func (s *BackupService) Import(inputPath string, clear bool) (int, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read backup file: %w", err)
	}

	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return 0, fmt.Errorf("failed to parse backup file: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if clear {
		// Guests first, parties second (foreign key)
		if _, err := tx.Exec("DELETE FROM guests"); err != nil {
			return 0, fmt.Errorf("failed to clear guests: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM parties"); err != nil {
			return 0, fmt.Errorf("failed to clear parties: %w", err)
		}
	}

	for _, party := range backup.Parties {
		_, err := tx.Exec(
			"INSERT INTO parties (id, birthday_kid, created_by, created_at) VALUES (?, ?, ?, ?)",
			party.ID, party.BirthdayKid, party.CreatedBy, party.CreatedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to import party %s: %w", party.ID, err)
		}

		for _, guest := range party.Guests {
			_, err := tx.Exec(
				"INSERT INTO guests (party_id, position, name, claimed_by, claimed_at) VALUES (?, ?, ?, ?, ?)",
				party.ID, guest.Position, guest.Name, guest.ClaimedBy, guest.ClaimedAt,
			)
			if err != nil {
				return 0, fmt.Errorf("failed to import guest %s of party %s: %w", guest.Name, party.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	return len(backup.Parties), nil
}
