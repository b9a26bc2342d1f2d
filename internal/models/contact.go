package models

import (
	"time"
)

// Contact represents a single phonebook entry
type Contact struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	PhoneNumber string    `json:"phoneNumber"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ContactPatch carries a partial update. Nil fields are left unchanged.
type ContactPatch struct {
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Email       *string `json:"email,omitempty"`
	Address     *string `json:"address,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// Now returns the current time as stored by every adapter: UTC with
// millisecond precision.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// NewContact creates an unsaved contact stamped with the current time
func NewContact(firstName, lastName, phoneNumber, email, address, notes string) Contact {
	now := Now()
	return Contact{
		FirstName:   firstName,
		LastName:    lastName,
		PhoneNumber: phoneNumber,
		Email:       email,
		Address:     address,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// FullName returns the first and last name separated by a space
func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// FormattedPhoneNumber returns the phone number for display
func (c Contact) FormattedPhoneNumber() string {
	return FormatPhoneNumber(c.PhoneNumber)
}

// Apply returns a copy of c with the patch merged in and UpdatedAt set to now.
// ID and CreatedAt are never changed, and UpdatedAt moves even for an empty patch.
func (c Contact) Apply(patch ContactPatch, now time.Time) Contact {
	updated := c
	if patch.FirstName != nil {
		updated.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		updated.LastName = *patch.LastName
	}
	if patch.PhoneNumber != nil {
		updated.PhoneNumber = *patch.PhoneNumber
	}
	if patch.Email != nil {
		updated.Email = *patch.Email
	}
	if patch.Address != nil {
		updated.Address = *patch.Address
	}
	if patch.Notes != nil {
		updated.Notes = *patch.Notes
	}
	updated.UpdatedAt = now
	return updated
}

// IsEmpty reports whether the patch changes no field
func (p ContactPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.PhoneNumber == nil &&
		p.Email == nil && p.Address == nil && p.Notes == nil
}
