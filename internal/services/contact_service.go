package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alimgiray/phonebook/internal/models"
	"github.com/alimgiray/phonebook/internal/repositories"
)

// Field limits shared by every storage adapter. Names and email are counted in
// characters, address and notes in bytes, matching the MySQL column types.
const (
	maxNameLength  = 100
	maxEmailLength = 100
	maxTextBytes   = 65535
)

// CreateContactInput carries the fields of a new contact
type CreateContactInput struct {
	FirstName   string `json:"firstName" form:"firstName"`
	LastName    string `json:"lastName" form:"lastName"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
	Email       string `json:"email" form:"email"`
	Address     string `json:"address" form:"address"`
	Notes       string `json:"notes" form:"notes"`
}

// ContactList is the result of listing or searching contacts. Total is the
// size of the whole phonebook, independent of any search filter.
type ContactList struct {
	Contacts []models.Contact `json:"contacts"`
	Total    int              `json:"total"`
}

type ContactService struct {
	contactRepo repositories.ContactRepository
}

func NewContactService(contactRepo repositories.ContactRepository) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
	}
}

// CreateContact validates input and stores a new contact
func (s *ContactService) CreateContact(ctx context.Context, input CreateContactInput) (models.Contact, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" {
		return models.Contact{}, &models.ValidationError{
			Field:   missingNameField(firstName, lastName),
			Message: "First name and last name are required",
		}
	}

	email := strings.TrimSpace(input.Email)
	address := strings.TrimSpace(input.Address)
	notes := strings.TrimSpace(input.Notes)
	if err := validateLengths(&firstName, &lastName, &email, &address, &notes); err != nil {
		return models.Contact{}, err
	}

	phoneNumber, err := models.NewPhoneNumber(input.PhoneNumber)
	if err != nil {
		return models.Contact{}, err
	}

	existing, err := s.contactRepo.FindByPhoneNumber(ctx, phoneNumber.String())
	if err != nil {
		return models.Contact{}, err
	}
	if existing != nil {
		return models.Contact{}, models.ErrDuplicatePhoneNumber
	}

	contact := models.NewContact(
		firstName,
		lastName,
		phoneNumber.String(),
		email,
		address,
		notes,
	)

	return s.contactRepo.Save(ctx, contact)
}

// GetContact retrieves a contact by ID
func (s *ContactService) GetContact(ctx context.Context, id string) (models.Contact, error) {
	contact, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return models.Contact{}, err
	}
	if contact == nil {
		return models.Contact{}, models.ErrContactNotFound
	}
	return *contact, nil
}

// UpdateContact applies a partial update to an existing contact
func (s *ContactService) UpdateContact(ctx context.Context, id string, patch models.ContactPatch) (models.Contact, error) {
	existing, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return models.Contact{}, err
	}
	if existing == nil {
		return models.Contact{}, models.ErrContactNotFound
	}

	patch = trimPatch(patch)
	if patch.FirstName != nil && *patch.FirstName == "" {
		return models.Contact{}, &models.ValidationError{Field: "firstName", Message: "First name cannot be empty"}
	}
	if patch.LastName != nil && *patch.LastName == "" {
		return models.Contact{}, &models.ValidationError{Field: "lastName", Message: "Last name cannot be empty"}
	}
	if err := validateLengths(patch.FirstName, patch.LastName, patch.Email, patch.Address, patch.Notes); err != nil {
		return models.Contact{}, err
	}

	if patch.PhoneNumber != nil {
		phoneNumber, err := models.NewPhoneNumber(*patch.PhoneNumber)
		if err != nil {
			return models.Contact{}, err
		}

		owner, err := s.contactRepo.FindByPhoneNumber(ctx, phoneNumber.String())
		if err != nil {
			return models.Contact{}, err
		}
		if owner != nil && owner.ID != id {
			return models.Contact{}, models.ErrDuplicatePhoneNumber
		}

		normalized := phoneNumber.String()
		patch.PhoneNumber = &normalized
	}

	updated, err := s.contactRepo.Update(ctx, id, patch)
	if err != nil {
		return models.Contact{}, err
	}
	if updated == nil {
		return models.Contact{}, models.ErrUpdateFailed
	}
	return *updated, nil
}

// DeleteContact removes a contact by ID
func (s *ContactService) DeleteContact(ctx context.Context, id string) error {
	existing, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return models.ErrContactNotFound
	}

	deleted, err := s.contactRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return models.ErrDeleteFailed
	}
	return nil
}

// ListContacts returns all contacts, or those matching query when it is not blank.
// The query is trimmed first, so a whitespace-only query lists everything.
func (s *ContactService) ListContacts(ctx context.Context, query string) (ContactList, error) {
	var contacts []models.Contact
	var err error

	if query = strings.TrimSpace(query); query != "" {
		contacts, err = s.contactRepo.Search(ctx, query)
	} else {
		contacts, err = s.contactRepo.FindAll(ctx)
	}
	if err != nil {
		return ContactList{}, err
	}

	total, err := s.contactRepo.Count(ctx)
	if err != nil {
		return ContactList{}, err
	}

	if contacts == nil {
		contacts = []models.Contact{}
	}
	return ContactList{Contacts: contacts, Total: total}, nil
}

func missingNameField(firstName, lastName string) string {
	if firstName == "" {
		return "firstName"
	}
	return "lastName"
}

// validateLengths checks the optional fields in order firstName, lastName,
// email, address, notes. Nil fields are skipped.
func validateLengths(firstName, lastName, email, address, notes *string) error {
	runeLimits := []struct {
		field string
		label string
		value *string
		max   int
	}{
		{"firstName", "First name", firstName, maxNameLength},
		{"lastName", "Last name", lastName, maxNameLength},
		{"email", "Email", email, maxEmailLength},
	}
	for _, l := range runeLimits {
		if l.value != nil && utf8.RuneCountInString(*l.value) > l.max {
			return &models.ValidationError{
				Field:   l.field,
				Message: fmt.Sprintf("%s must be at most %d characters", l.label, l.max),
			}
		}
	}

	byteLimits := []struct {
		field string
		label string
		value *string
	}{
		{"address", "Address", address},
		{"notes", "Notes", notes},
	}
	for _, l := range byteLimits {
		if l.value != nil && len(*l.value) > maxTextBytes {
			return &models.ValidationError{
				Field:   l.field,
				Message: fmt.Sprintf("%s must be at most %d bytes", l.label, maxTextBytes),
			}
		}
	}
	return nil
}

// trimPatch trims surrounding whitespace from every present field
func trimPatch(patch models.ContactPatch) models.ContactPatch {
	for _, field := range []**string{
		&patch.FirstName, &patch.LastName, &patch.PhoneNumber,
		&patch.Email, &patch.Address, &patch.Notes,
	} {
		if *field != nil {
			trimmed := strings.TrimSpace(**field)
			*field = &trimmed
		}
	}
	return patch
}
