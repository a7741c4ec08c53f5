package models

import "time"

// Party represents a single birthday-invitation campaign. The guest list
// is fixed at creation time; nothing adds or removes guests afterwards.
type Party struct {
	ID          string
	BirthdayKid string
	CreatedBy   int64
	CreatedAt   time.Time
	Guests      []Guest
}

// Guest is one named invitee within a party. ClaimedBy and ClaimedAt are
// set together, exactly once; a claimed guest is never unclaimed.
type Guest struct {
	ID        int64
	Name      string
	ClaimedBy *int64
	ClaimedAt *time.Time
}

func (g *Guest) IsClaimed() bool {
	return g.ClaimedBy != nil
}

// PartyView is the unauthenticated read model of a party. It carries only
// a claimed boolean per guest, never the claimant's identity.
type PartyView struct {
	BirthdayKid string      `json:"birthdayKid"`
	Guests      []GuestView `json:"guests"`
}

type GuestView struct {
	Name    string `json:"name"`
	Claimed bool   `json:"claimed"`
}

// View projects a party into its public read model, preserving guest order.
func (p *Party) View() *PartyView {
	view := &PartyView{
		BirthdayKid: p.BirthdayKid,
		Guests:      make([]GuestView, 0, len(p.Guests)),
	}
	for i := range p.Guests {
		view.Guests = append(view.Guests, GuestView{
			Name:    p.Guests[i].Name,
			Claimed: p.Guests[i].IsClaimed(),
		})
	}
	return view
}
