package repository

import (
	"os"
	"sync"
	"testing"

	"partyfox/internal/database"
)

// newTestDB opens a throwaway SQLite database with the schema applied
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dbPath := t.TempDir() + "/test.db"
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func TestPartyRepositoryLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := NewPartyRepository(newTestDB(t))

	if err := repo.CreateParty("abc123def456", "Mila", []string{"Ana", "Ben"}, 42); err != nil {
		t.Fatalf("CreateParty failed: %v", err)
	}

	party, err := repo.GetParty("abc123def456")
	if err != nil {
		t.Fatalf("GetParty failed: %v", err)
	}
	if party == nil {
		t.Fatal("expected party, got nil")
	}
	if party.BirthdayKid != "Mila" || party.CreatedBy != 42 {
		t.Errorf("unexpected party: kid=%q createdBy=%d", party.BirthdayKid, party.CreatedBy)
	}
	if len(party.Guests) != 2 || party.Guests[0].Name != "Ana" || party.Guests[1].Name != "Ben" {
		t.Fatalf("guest list wrong: %+v", party.Guests)
	}
	for _, guest := range party.Guests {
		if guest.IsClaimed() {
			t.Errorf("guest %q should start unclaimed", guest.Name)
		}
	}

	missing, err := repo.GetParty("nope")
	if err != nil {
		t.Fatalf("GetParty on unknown id failed: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for unknown party")
	}
}

func TestPartyRepositoryDuplicateID(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := NewPartyRepository(newTestDB(t))

	if err := repo.CreateParty("abc123def456", "Mila", []string{"Ana"}, 1); err != nil {
		t.Fatalf("first CreateParty failed: %v", err)
	}
	if err := repo.CreateParty("abc123def456", "Sasha", []string{"Ben"}, 2); err != ErrDuplicateID {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestPartyRepositoryClaimGuest(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := NewPartyRepository(newTestDB(t))
	if err := repo.CreateParty("abc123def456", "Mila", []string{"Ana", "Ben"}, 42); err != nil {
		t.Fatalf("CreateParty failed: %v", err)
	}

	result, err := repo.ClaimGuest("abc123def456", "Ana", 7)
	if err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if result != Claimed {
		t.Fatalf("first claim = %v, want Claimed", result)
	}

	result, err = repo.ClaimGuest("abc123def456", "Ana", 9)
	if err != nil {
		t.Fatalf("second claim failed: %v", err)
	}
	if result != AlreadyClaimed {
		t.Fatalf("second claim = %v, want AlreadyClaimed", result)
	}

	party, err := repo.GetParty("abc123def456")
	if err != nil {
		t.Fatalf("GetParty failed: %v", err)
	}
	if !party.Guests[0].IsClaimed() || *party.Guests[0].ClaimedBy != 7 {
		t.Errorf("Ana should be claimed by 7, got %+v", party.Guests[0])
	}
	if party.Guests[0].ClaimedAt == nil {
		t.Error("ClaimedAt should be set")
	}
	if party.Guests[1].IsClaimed() {
		t.Error("Ben should be unaffected")
	}

	result, err = repo.ClaimGuest("unknown", "Ana", 7)
	if err != nil {
		t.Fatalf("claim on unknown party failed: %v", err)
	}
	if result != ClaimNotFound {
		t.Fatalf("unknown party claim = %v, want ClaimNotFound", result)
	}
}

func TestPartyRepositoryConcurrentClaims(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := NewPartyRepository(newTestDB(t))
	if err := repo.CreateParty("abc123def456", "Mila", []string{"Ana"}, 42); err != nil {
		t.Fatalf("CreateParty failed: %v", err)
	}

	const claimants = 16
	results := make([]ClaimResult, claimants)

	var wg sync.WaitGroup
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := repo.ClaimGuest("abc123def456", "Ana", int64(i+1))
			if err != nil {
				t.Errorf("claimant %d: %v", i, err)
				return
			}
			results[i] = result
		}(i)
	}
	wg.Wait()

	claimed := 0
	for _, result := range results {
		if result == Claimed {
			claimed++
		}
	}
	if claimed != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", claimed)
	}
}

func TestPartyRepositoryDuplicateGuestNames(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := NewPartyRepository(newTestDB(t))
	if err := repo.CreateParty("abc123def456", "Mila", []string{"Ana", "Ana"}, 1); err != nil {
		t.Fatalf("CreateParty failed: %v", err)
	}

	// The first claim takes the first unclaimed "Ana", the second takes the other
	for i := 0; i < 2; i++ {
		result, err := repo.ClaimGuest("abc123def456", "Ana", int64(10+i))
		if err != nil {
			t.Fatalf("ClaimGuest %d failed: %v", i, err)
		}
		if result != Claimed {
			t.Fatalf("claim %d = %v, want Claimed", i, result)
		}
	}

	result, err := repo.ClaimGuest("abc123def456", "Ana", 99)
	if err != nil {
		t.Fatalf("ClaimGuest failed: %v", err)
	}
	if result != AlreadyClaimed {
		t.Fatalf("third claim = %v, want AlreadyClaimed", result)
	}
}

func TestPartyRepositoryConcurrentClaimsWithNamesakes(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := NewPartyRepository(newTestDB(t))
	if err := repo.CreateParty("abc123def456", "Mila", []string{"Ana", "Ana"}, 42); err != nil {
		t.Fatalf("CreateParty failed: %v", err)
	}

	// With two unclaimed namesakes, a claimant that loses the race for the
	// first must fall through to the second, not give up
	const claimants = 8
	results := make([]ClaimResult, claimants)

	var wg sync.WaitGroup
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := repo.ClaimGuest("abc123def456", "Ana", int64(i+1))
			if err != nil {
				t.Errorf("claimant %d: %v", i, err)
				return
			}
			results[i] = result
		}(i)
	}
	wg.Wait()

	claimed := 0
	for _, result := range results {
		if result == Claimed {
			claimed++
		}
	}
	if claimed != 2 {
		t.Fatalf("expected exactly 2 winners, got %d", claimed)
	}

	party, err := repo.GetParty("abc123def456")
	if err != nil {
		t.Fatalf("GetParty failed: %v", err)
	}
	for _, guest := range party.Guests {
		if !guest.IsClaimed() {
			t.Error("both namesakes should end claimed")
		}
	}
}

func TestGeneratePartyIDUniqueness(t *testing.T) {
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		id, err := GeneratePartyID()
		if err != nil {
			t.Fatalf("GeneratePartyID failed: %v", err)
		}
		if len(id) != 12 {
			t.Fatalf("token %q has length %d, want 12", id, len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate token %q after %d generations", id, i)
		}
		seen[id] = true
	}
}
