package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alimgiray/phonebook/internal/models"
	"github.com/alimgiray/phonebook/internal/repositories"
	"github.com/alimgiray/phonebook/pkg/localstorage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// mockRepository wraps a real in-memory repository and lets tests force
// the outcomes the use cases must cope with.
type mockRepository struct {
	repositories.ContactRepository

	updateReturnsNil bool
	deleteReturns    *bool
	findErr          error
	countErr         error
}

func (m *mockRepository) FindByID(ctx context.Context, id string) (*models.Contact, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.ContactRepository.FindByID(ctx, id)
}

func (m *mockRepository) Update(ctx context.Context, id string, patch models.ContactPatch) (*models.Contact, error) {
	if m.updateReturnsNil {
		return nil, nil
	}
	return m.ContactRepository.Update(ctx, id, patch)
}

func (m *mockRepository) Delete(ctx context.Context, id string) (bool, error) {
	if m.deleteReturns != nil {
		return *m.deleteReturns, nil
	}
	return m.ContactRepository.Delete(ctx, id)
}

func (m *mockRepository) Count(ctx context.Context) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.ContactRepository.Count(ctx)
}

var _ repositories.ContactRepository = (*mockRepository)(nil)

func newTestService(t *testing.T) (*ContactService, *mockRepository) {
	t.Helper()
	repo := &mockRepository{
		ContactRepository: repositories.NewLocalStorageContactRepository(localstorage.NewMemoryStorage()),
	}
	return NewContactService(repo), repo
}

func strPtr(s string) *string {
	return &s
}

func mustCreate(t *testing.T, service *ContactService, first, last, phone, email string) models.Contact {
	t.Helper()
	contact, err := service.CreateContact(context.Background(), CreateContactInput{
		FirstName:   first,
		LastName:    last,
		PhoneNumber: phone,
		Email:       email,
	})
	require.NoError(t, err)
	return contact
}

func TestContactService_CreateContact(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	contact, err := service.CreateContact(ctx, CreateContactInput{
		FirstName:   " John ",
		LastName:    "Doe",
		PhoneNumber: "(123) 456-7890",
		Email:       "john@example.com",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, contact.ID)
	assert.Equal(t, "John", contact.FirstName)
	assert.Equal(t, "1234567890", contact.PhoneNumber)
	assert.Equal(t, "john@example.com", contact.Email)
	assert.False(t, contact.UpdatedAt.Before(contact.CreatedAt))

	stored, err := service.GetContact(ctx, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "1234567890", stored.PhoneNumber)
}

func TestContactService_CreateContact_Validation(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name          string
		input         CreateContactInput
		expectedField string
		expectedErr   error
	}{
		{
			name:          "missing first name",
			input:         CreateContactInput{LastName: "Doe", PhoneNumber: "1234567890"},
			expectedField: "firstName",
		},
		{
			name:          "blank last name",
			input:         CreateContactInput{FirstName: "John", LastName: "   ", PhoneNumber: "1234567890"},
			expectedField: "lastName",
		},
		{
			name:          "first name too long",
			input:         CreateContactInput{FirstName: strings.Repeat("a", 101), LastName: "Doe", PhoneNumber: "1234567890"},
			expectedField: "firstName",
		},
		{
			name:          "email too long",
			input:         CreateContactInput{FirstName: "John", LastName: "Doe", PhoneNumber: "1234567890", Email: strings.Repeat("e", 95) + "@x.com"},
			expectedField: "email",
		},
		{
			name:          "notes too large",
			input:         CreateContactInput{FirstName: "John", LastName: "Doe", PhoneNumber: "1234567890", Notes: strings.Repeat("n", 65536)},
			expectedField: "notes",
		},
		{
			name:        "invalid phone",
			input:       CreateContactInput{FirstName: "John", LastName: "Doe", PhoneNumber: "123"},
			expectedErr: models.ErrInvalidPhoneNumber,
		},
		{
			name:        "phone with letters",
			input:       CreateContactInput{FirstName: "John", LastName: "Doe", PhoneNumber: "123abc7890"},
			expectedErr: models.ErrInvalidPhoneNumber,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service, repo := newTestService(t)

			_, err := service.CreateContact(ctx, tc.input)
			require.Error(t, err)

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				var validationErr *models.ValidationError
				require.True(t, errors.As(err, &validationErr))
				assert.Equal(t, tc.expectedField, validationErr.Field)
			}

			count, err := repo.Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestContactService_FieldLengthLimits(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	// 100 multi-byte characters fit, the limit counts characters
	contact, err := service.CreateContact(ctx, CreateContactInput{
		FirstName:   strings.Repeat("é", 100),
		LastName:    "Doe",
		PhoneNumber: "1234567890",
	})
	require.NoError(t, err)
	assert.Equal(t, 100, len([]rune(contact.FirstName)))

	_, err = service.UpdateContact(ctx, contact.ID, models.ContactPatch{LastName: strPtr(strings.Repeat("x", 101))})
	var validationErr *models.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "lastName", validationErr.Field)
	assert.Equal(t, "Last name must be at most 100 characters", validationErr.Message)

	unchanged, err := service.GetContact(ctx, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "Doe", unchanged.LastName)
}

func TestContactService_CreateContact_DuplicatePhone(t *testing.T) {
	ctx := context.Background()
	service, repo := newTestService(t)
	mustCreate(t, service, "John", "Doe", "(123) 456-7890", "")

	_, err := service.CreateContact(ctx, CreateContactInput{
		FirstName:   "Jane",
		LastName:    "Doe",
		PhoneNumber: "123-456-7890",
	})
	assert.ErrorIs(t, err, models.ErrDuplicatePhoneNumber)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestContactService_GetContact_NotFound(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.GetContact(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrContactNotFound)
}

func TestContactService_GetContact_StorageFailure(t *testing.T) {
	service, repo := newTestService(t)
	repo.findErr = models.NewStorageError("find", errors.New("connection refused"))

	_, err := service.GetContact(context.Background(), "any")
	assert.ErrorIs(t, err, models.ErrStorageFailure)
}

func TestContactService_UpdateContact(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)
	contact := mustCreate(t, service, "John", "Doe", "1234567890", "john@example.com")

	updated, err := service.UpdateContact(ctx, contact.ID, models.ContactPatch{
		LastName:    strPtr("Smith"),
		PhoneNumber: strPtr("+1 (555) 000-1111"),
	})
	require.NoError(t, err)

	assert.Equal(t, contact.ID, updated.ID)
	assert.Equal(t, "John", updated.FirstName)
	assert.Equal(t, "Smith", updated.LastName)
	assert.Equal(t, "15550001111", updated.PhoneNumber)
	assert.Equal(t, "john@example.com", updated.Email)
	assert.True(t, updated.CreatedAt.Equal(contact.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(contact.UpdatedAt))
}

func TestContactService_UpdateContact_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		service, _ := newTestService(t)
		_, err := service.UpdateContact(ctx, "missing", models.ContactPatch{FirstName: strPtr("X")})
		assert.ErrorIs(t, err, models.ErrContactNotFound)
	})

	t.Run("duplicate phone of another contact", func(t *testing.T) {
		service, _ := newTestService(t)
		mustCreate(t, service, "John", "Doe", "1234567890", "")
		other := mustCreate(t, service, "Jane", "Roe", "0987654321", "")

		_, err := service.UpdateContact(ctx, other.ID, models.ContactPatch{PhoneNumber: strPtr("(123) 456-7890")})
		assert.ErrorIs(t, err, models.ErrDuplicatePhoneNumber)

		unchanged, err := service.GetContact(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, "0987654321", unchanged.PhoneNumber)
	})

	t.Run("own phone number is allowed", func(t *testing.T) {
		service, _ := newTestService(t)
		contact := mustCreate(t, service, "John", "Doe", "1234567890", "")

		updated, err := service.UpdateContact(ctx, contact.ID, models.ContactPatch{PhoneNumber: strPtr("123 456 7890")})
		require.NoError(t, err)
		assert.Equal(t, "1234567890", updated.PhoneNumber)
	})

	t.Run("invalid phone", func(t *testing.T) {
		service, _ := newTestService(t)
		contact := mustCreate(t, service, "John", "Doe", "1234567890", "")

		_, err := service.UpdateContact(ctx, contact.ID, models.ContactPatch{PhoneNumber: strPtr("12")})
		assert.ErrorIs(t, err, models.ErrInvalidPhoneNumber)
	})

	t.Run("empty name", func(t *testing.T) {
		service, _ := newTestService(t)
		contact := mustCreate(t, service, "John", "Doe", "1234567890", "")

		_, err := service.UpdateContact(ctx, contact.ID, models.ContactPatch{FirstName: strPtr("  ")})
		var validationErr *models.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "firstName", validationErr.Field)
	})

	t.Run("adapter reports no update", func(t *testing.T) {
		service, repo := newTestService(t)
		contact := mustCreate(t, service, "John", "Doe", "1234567890", "")
		repo.updateReturnsNil = true

		_, err := service.UpdateContact(ctx, contact.ID, models.ContactPatch{Notes: strPtr("x")})
		assert.ErrorIs(t, err, models.ErrUpdateFailed)
	})
}

func TestContactService_UpdateContact_EmptyPatch(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)
	contact := mustCreate(t, service, "John", "Doe", "1234567890", "john@example.com")

	updated, err := service.UpdateContact(ctx, contact.ID, models.ContactPatch{})
	require.NoError(t, err)

	assert.False(t, updated.UpdatedAt.Before(contact.UpdatedAt))
	updated.UpdatedAt = contact.UpdatedAt
	assert.Equal(t, contact.ID, updated.ID)
	assert.Equal(t, contact.FullName(), updated.FullName())
	assert.Equal(t, contact.PhoneNumber, updated.PhoneNumber)
	assert.Equal(t, contact.Email, updated.Email)
	assert.True(t, contact.CreatedAt.Equal(updated.CreatedAt))
}

func TestContactService_DeleteContact(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		service, repo := newTestService(t)
		contact := mustCreate(t, service, "John", "Doe", "1234567890", "")

		require.NoError(t, service.DeleteContact(ctx, contact.ID))

		_, err := service.GetContact(ctx, contact.ID)
		assert.ErrorIs(t, err, models.ErrContactNotFound)
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("not found leaves count unchanged", func(t *testing.T) {
		service, repo := newTestService(t)
		mustCreate(t, service, "John", "Doe", "1234567890", "")

		err := service.DeleteContact(ctx, "missing")
		assert.ErrorIs(t, err, models.ErrContactNotFound)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("adapter reports nothing removed", func(t *testing.T) {
		service, repo := newTestService(t)
		contact := mustCreate(t, service, "John", "Doe", "1234567890", "")
		notDeleted := false
		repo.deleteReturns = &notDeleted

		err := service.DeleteContact(ctx, contact.ID)
		assert.ErrorIs(t, err, models.ErrDeleteFailed)
	})
}

func TestContactService_ListContacts(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	mustCreate(t, service, "john", "Doe", "1111111111", "")
	mustCreate(t, service, "Alice", "Johnson", "2222222222", "")
	mustCreate(t, service, "Bob", "Builder", "3333333333", "bob@johnsons.com")
	mustCreate(t, service, "Carol", "King", "4444444444", "carol@example.com")

	t.Run("all contacts ordered", func(t *testing.T) {
		list, err := service.ListContacts(ctx, "")
		require.NoError(t, err)

		assert.Equal(t, 4, list.Total)
		require.Len(t, list.Contacts, 4)
		var got []string
		for _, c := range list.Contacts {
			got = append(got, c.FullName())
		}
		assert.Equal(t, []string{"Alice Johnson", "Bob Builder", "Carol King", "john Doe"}, got)
	})

	t.Run("search keeps unfiltered total", func(t *testing.T) {
		list, err := service.ListContacts(ctx, "john")
		require.NoError(t, err)

		assert.Equal(t, 4, list.Total)
		require.Len(t, list.Contacts, 3)
		assert.Equal(t, "Alice", list.Contacts[0].FirstName)
		assert.Equal(t, "Bob", list.Contacts[1].FirstName)
		assert.Equal(t, "john", list.Contacts[2].FirstName)
	})

	t.Run("blank query lists everything", func(t *testing.T) {
		list, err := service.ListContacts(ctx, "   ")
		require.NoError(t, err)
		assert.Len(t, list.Contacts, 4)
	})

	t.Run("no match returns empty slice", func(t *testing.T) {
		list, err := service.ListContacts(ctx, "zzz")
		require.NoError(t, err)
		assert.NotNil(t, list.Contacts)
		assert.Empty(t, list.Contacts)
		assert.Equal(t, 4, list.Total)
	})
}

func TestContactService_ListContacts_CountFailure(t *testing.T) {
	service, repo := newTestService(t)
	repo.countErr = models.NewStorageError("count", errors.New("timeout"))

	_, err := service.ListContacts(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrStorageFailure)
}

func TestExportService_ExportXLSX(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)
	mustCreate(t, service, "John", "Doe", "1234567890", "john@example.com")
	mustCreate(t, service, "Ann", "Lee", "+44 20 7946 0958", "")

	var buf bytes.Buffer
	exported, err := NewExportService(service).ExportXLSX(ctx, "", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, exported)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "First Name", rows[0][0])
	assert.Equal(t, []string{"Ann", "Lee", "442079460958"}, rows[1][:3])
	assert.Equal(t, []string{"John", "Doe", "(123) 456-7890", "john@example.com"}, rows[2][:4])
}

func TestExportService_ExportXLSX_Filtered(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)
	mustCreate(t, service, "John", "Doe", "1234567890", "")
	mustCreate(t, service, "Ann", "Lee", "0987654321", "")

	var buf bytes.Buffer
	exported, err := NewExportService(service).ExportXLSX(ctx, "ann", &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, exported)
}
