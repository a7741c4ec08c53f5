package service

import (
	"context"
	"errors"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"ana@example.com", true},
		{"ben.smith+party@mail.co.uk", true},
		{"  mila@example.com  ", true},
		{"", false},
		{"   ", false},
		{"not-an-email", false},
		{"@example.com", false},
		{"ana@", false},
		{"ana@example", false},
	}

	for _, tt := range tests {
		err := ValidateEmail(tt.email)
		if tt.valid && err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", tt.email, err)
		}
		if !tt.valid && !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("ValidateEmail(%q) = %v, want ErrInvalidEmail", tt.email, err)
		}
	}
}

func TestDisabledShareServiceSkipsSend(t *testing.T) {
	shareService, err := NewShareService("eu-central-1", "", "")
	if err != nil {
		t.Fatalf("NewShareService failed: %v", err)
	}
	if shareService.IsEnabled() {
		t.Fatal("service should be disabled without a from address")
	}

	// A disabled service still validates but never contacts SES
	if err := shareService.SendShareLink(context.Background(), "ana@example.com", "Mila", "http://localhost/?party=abc"); err != nil {
		t.Fatalf("SendShareLink on disabled service failed: %v", err)
	}
	if err := shareService.SendShareLink(context.Background(), "bogus", "Mila", "http://localhost/?party=abc"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}
