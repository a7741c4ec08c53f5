package repository

import (
	"sync"
	"testing"
)

func TestMemStoreCreateAndGetParty(t *testing.T) {
	store := NewMemStore()

	if err := store.CreateParty("abc123", "Mila", []string{"Ana", "Ben"}, 42); err != nil {
		t.Fatalf("CreateParty failed: %v", err)
	}

	party, err := store.GetParty("abc123")
	if err != nil {
		t.Fatalf("GetParty failed: %v", err)
	}
	if party == nil {
		t.Fatal("expected party, got nil")
	}
	if party.BirthdayKid != "Mila" {
		t.Errorf("BirthdayKid = %q, want Mila", party.BirthdayKid)
	}
	if party.CreatedBy != 42 {
		t.Errorf("CreatedBy = %d, want 42", party.CreatedBy)
	}
	if len(party.Guests) != 2 {
		t.Fatalf("expected 2 guests, got %d", len(party.Guests))
	}
	if party.Guests[0].Name != "Ana" || party.Guests[1].Name != "Ben" {
		t.Errorf("guest order not preserved: %q, %q", party.Guests[0].Name, party.Guests[1].Name)
	}
	for _, guest := range party.Guests {
		if guest.IsClaimed() {
			t.Errorf("guest %q should start unclaimed", guest.Name)
		}
	}
}

func TestMemStoreDuplicateID(t *testing.T) {
	store := NewMemStore()

	if err := store.CreateParty("abc123", "Mila", []string{"Ana"}, 1); err != nil {
		t.Fatalf("first CreateParty failed: %v", err)
	}
	if err := store.CreateParty("abc123", "Sasha", []string{"Ben"}, 2); err != ErrDuplicateID {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestMemStoreDuplicateGuestNamesAccepted(t *testing.T) {
	store := NewMemStore()

	// Duplicate names within a party are allowed; the store does not dedup
	if err := store.CreateParty("abc123", "Mila", []string{"Ana", "Ana"}, 1); err != nil {
		t.Fatalf("CreateParty failed: %v", err)
	}

	party, err := store.GetParty("abc123")
	if err != nil {
		t.Fatalf("GetParty failed: %v", err)
	}
	if len(party.Guests) != 2 {
		t.Fatalf("expected 2 guests, got %d", len(party.Guests))
	}

	// The first claim takes the first unclaimed "Ana", the second takes the other
	for i := 0; i < 2; i++ {
		result, err := store.ClaimGuest("abc123", "Ana", int64(10+i))
		if err != nil {
			t.Fatalf("ClaimGuest %d failed: %v", i, err)
		}
		if result != Claimed {
			t.Fatalf("claim %d = %v, want Claimed", i, result)
		}
	}

	result, err := store.ClaimGuest("abc123", "Ana", 99)
	if err != nil {
		t.Fatalf("ClaimGuest failed: %v", err)
	}
	if result != AlreadyClaimed {
		t.Fatalf("third claim = %v, want AlreadyClaimed", result)
	}
}

func TestMemStoreClaimGuest(t *testing.T) {
	store := NewMemStore()
	if err := store.CreateParty("abc123", "Mila", []string{"Ana", "Ben"}, 42); err != nil {
		t.Fatalf("CreateParty failed: %v", err)
	}

	result, err := store.ClaimGuest("abc123", "Ana", 7)
	if err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if result != Claimed {
		t.Fatalf("first claim = %v, want Claimed", result)
	}

	// A later claim from anyone, including claimant 7 retrying, is a no-op
	for _, claimant := range []int64{9, 7} {
		result, err = store.ClaimGuest("abc123", "Ana", claimant)
		if err != nil {
			t.Fatalf("repeat claim failed: %v", err)
		}
		if result != AlreadyClaimed {
			t.Fatalf("repeat claim by %d = %v, want AlreadyClaimed", claimant, result)
		}
	}

	party, _ := store.GetParty("abc123")
	if !party.Guests[0].IsClaimed() {
		t.Error("Ana should be claimed")
	}
	if *party.Guests[0].ClaimedBy != 7 {
		t.Errorf("Ana claimed by %d, want 7", *party.Guests[0].ClaimedBy)
	}
	if party.Guests[0].ClaimedAt == nil {
		t.Error("ClaimedAt should be set together with ClaimedBy")
	}
	if party.Guests[1].IsClaimed() {
		t.Error("Ben should be unaffected")
	}
}

func TestMemStoreClaimUnknown(t *testing.T) {
	store := NewMemStore()
	if err := store.CreateParty("abc123", "Mila", []string{"Ana"}, 42); err != nil {
		t.Fatalf("CreateParty failed: %v", err)
	}

	result, err := store.ClaimGuest("missing", "Ana", 7)
	if err != nil {
		t.Fatalf("claim on unknown party failed: %v", err)
	}
	if result != ClaimNotFound {
		t.Fatalf("unknown party claim = %v, want ClaimNotFound", result)
	}

	result, err = store.ClaimGuest("abc123", "Zoe", 7)
	if err != nil {
		t.Fatalf("claim on unknown guest failed: %v", err)
	}
	if result != ClaimNotFound {
		t.Fatalf("unknown guest claim = %v, want ClaimNotFound", result)
	}

	// Neither attempt mutated state
	party, _ := store.GetParty("abc123")
	if party.Guests[0].IsClaimed() {
		t.Error("Ana should still be unclaimed")
	}
}

func TestMemStoreConcurrentClaims(t *testing.T) {
	store := NewMemStore()
	if err := store.CreateParty("abc123", "Mila", []string{"Ana"}, 42); err != nil {
		t.Fatalf("CreateParty failed: %v", err)
	}

	const claimants = 32
	results := make([]ClaimResult, claimants)

	var wg sync.WaitGroup
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := store.ClaimGuest("abc123", "Ana", int64(i+1))
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
		switch result {
		case Claimed:
			claimed++
		case AlreadyClaimed:
		default:
			t.Fatalf("unexpected result %v", result)
		}
	}
	if claimed != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", claimed)
	}

	party, _ := store.GetParty("abc123")
	if !party.Guests[0].IsClaimed() {
		t.Fatal("guest should end claimed")
	}
}

func TestMemStoreListParties(t *testing.T) {
	store := NewMemStore()
	for _, id := range []string{"aaa", "bbb", "ccc"} {
		if err := store.CreateParty(id, "Kid "+id, []string{"Ana"}, 1); err != nil {
			t.Fatalf("CreateParty %s failed: %v", id, err)
		}
	}

	parties, err := store.ListParties(2)
	if err != nil {
		t.Fatalf("ListParties failed: %v", err)
	}
	if len(parties) != 2 {
		t.Fatalf("expected 2 parties, got %d", len(parties))
	}
}

func TestMemStoreGetPartyReturnsCopy(t *testing.T) {
	store := NewMemStore()
	if err := store.CreateParty("abc123", "Mila", []string{"Ana"}, 42); err != nil {
		t.Fatalf("CreateParty failed: %v", err)
	}

	party, _ := store.GetParty("abc123")
	claimant := int64(99)
	party.Guests[0].ClaimedBy = &claimant

	fresh, _ := store.GetParty("abc123")
	if fresh.Guests[0].IsClaimed() {
		t.Fatal("mutating a returned party must not affect stored state")
	}
}
