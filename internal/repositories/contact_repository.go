package repositories

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/alimgiray/phonebook/internal/models"
	"github.com/google/uuid"
)

// ContactRepository is the storage contract every backend implements.
// Absence is reported as a nil record (or false from Delete), never as an error.
// Backend faults are returned as errors matching models.ErrStorageFailure.
type ContactRepository interface {
	// FindAll returns every contact ordered by first name then last name, case-insensitively
	FindAll(ctx context.Context) ([]models.Contact, error)

	FindByID(ctx context.Context, id string) (*models.Contact, error)

	// FindByPhoneNumber looks up a contact by its normalized phone number
	FindByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Contact, error)

	// Search matches query as a case-insensitive substring of first name, last
	// name or email, or as a plain substring of the stored phone digits.
	Search(ctx context.Context, query string) ([]models.Contact, error)

	// Save assigns an ID when missing, persists the contact and returns the stored record
	Save(ctx context.Context, contact models.Contact) (models.Contact, error)

	// Update merges the patch into the stored contact and refreshes UpdatedAt
	Update(ctx context.Context, id string, patch models.ContactPatch) (*models.Contact, error)

	// Delete removes the contact and reports whether anything was removed
	Delete(ctx context.Context, id string) (bool, error)

	Count(ctx context.Context) (int, error)

	// Close releases the backend handle
	Close() error
}

// Option customizes a repository
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock replaces the time source used to stamp contacts
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIDGenerator replaces the UUID generator used for new contacts
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		o.newID = newID
	}
}

func newOptions(opts []Option) options {
	o := options{
		now:   models.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// stamp returns the current time with the precision every backend stores
func (o options) stamp() time.Time {
	return normalizeTime(o.now())
}

// prepareForSave fills the ID and timestamps of a contact about to be inserted
func (o options) prepareForSave(contact models.Contact) models.Contact {
	if contact.ID == "" {
		contact.ID = o.newID()
	}
	now := o.stamp()
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}
	if contact.UpdatedAt.IsZero() {
		contact.UpdatedAt = now
	}
	contact.CreatedAt = normalizeTime(contact.CreatedAt)
	contact.UpdatedAt = normalizeTime(contact.UpdatedAt)
	return contact
}

func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// sortContacts orders contacts the way the SQL adapters do:
// lower(firstName), lower(lastName), id.
func sortContacts(contacts []models.Contact) {
	sort.SliceStable(contacts, func(i, j int) bool {
		a, b := contacts[i], contacts[j]
		if fa, fb := strings.ToLower(a.FirstName), strings.ToLower(b.FirstName); fa != fb {
			return fa < fb
		}
		if la, lb := strings.ToLower(a.LastName), strings.ToLower(b.LastName); la != lb {
			return la < lb
		}
		return a.ID < b.ID
	})
}

// matchesQuery applies the search rule to a single contact
func matchesQuery(contact models.Contact, query string) bool {
	lowerQuery := strings.ToLower(query)
	return strings.Contains(strings.ToLower(contact.FirstName), lowerQuery) ||
		strings.Contains(strings.ToLower(contact.LastName), lowerQuery) ||
		strings.Contains(contact.PhoneNumber, query) ||
		(contact.Email != "" && strings.Contains(strings.ToLower(contact.Email), lowerQuery))
}
