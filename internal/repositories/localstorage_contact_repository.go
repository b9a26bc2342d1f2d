package repositories

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/alimgiray/phonebook/internal/models"
	"github.com/alimgiray/phonebook/pkg/localstorage"
	"github.com/alimgiray/phonebook/pkg/logger"
)

// LocalStorageKey is the single storage key holding the serialized contact list
const LocalStorageKey = "phonebook_contacts"

// LocalStorageContactRepository keeps the whole contact list as one JSON array
// under LocalStorageKey. Every operation reads the full list, works on it in
// memory and writes it back.
//
// Two situations read as an empty phonebook instead of failing: a nil Storage
// (no backing store available, writes become no-ops) and a stored value that
// is not a valid contact array.
type LocalStorageContactRepository struct {
	mu      sync.Mutex
	storage localstorage.Storage
	opts    options
}

var _ ContactRepository = (*LocalStorageContactRepository)(nil)

func NewLocalStorageContactRepository(storage localstorage.Storage, opts ...Option) *LocalStorageContactRepository {
	return &LocalStorageContactRepository{
		storage: storage,
		opts:    newOptions(opts),
	}
}

// load reads and decodes the contact list. Caller holds r.mu.
func (r *LocalStorageContactRepository) load() ([]models.Contact, error) {
	if r.storage == nil {
		return nil, nil
	}

	data, ok, err := r.storage.GetItem(LocalStorageKey)
	if err != nil {
		return nil, models.NewStorageError("read contacts", err)
	}
	if !ok || data == "" {
		return nil, nil
	}

	var contacts []models.Contact
	if err := json.Unmarshal([]byte(data), &contacts); err != nil {
		logger.WithError(err).Debugf("Ignoring corrupt local storage value under %s", LocalStorageKey)
		return nil, nil
	}
	return contacts, nil
}

// store encodes and writes the contact list. Caller holds r.mu.
func (r *LocalStorageContactRepository) store(contacts []models.Contact) error {
	if r.storage == nil {
		return nil
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}

	data, err := json.Marshal(contacts)
	if err != nil {
		return models.NewStorageError("encode contacts", err)
	}
	if err := r.storage.SetItem(LocalStorageKey, string(data)); err != nil {
		return models.NewStorageError("write contacts", err)
	}
	return nil
}

func (r *LocalStorageContactRepository) FindAll(ctx context.Context) ([]models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contacts, err := r.load()
	if err != nil {
		return nil, err
	}
	sortContacts(contacts)
	return contacts, nil
}

func (r *LocalStorageContactRepository) FindByID(ctx context.Context, id string) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.findFirst(func(c models.Contact) bool { return c.ID == id })
}

func (r *LocalStorageContactRepository) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.findFirst(func(c models.Contact) bool { return c.PhoneNumber == phoneNumber })
}

func (r *LocalStorageContactRepository) findFirst(match func(models.Contact) bool) (*models.Contact, error) {
	contacts, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, contact := range contacts {
		if match(contact) {
			found := contact
			return &found, nil
		}
	}
	return nil, nil
}

func (r *LocalStorageContactRepository) Search(ctx context.Context, query string) ([]models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contacts, err := r.load()
	if err != nil {
		return nil, err
	}

	var matched []models.Contact
	for _, contact := range contacts {
		if matchesQuery(contact, query) {
			matched = append(matched, contact)
		}
	}
	sortContacts(matched)
	return matched, nil
}

func (r *LocalStorageContactRepository) Save(ctx context.Context, contact models.Contact) (models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contacts, err := r.load()
	if err != nil {
		return models.Contact{}, err
	}

	saved := r.opts.prepareForSave(contact)
	contacts = append(contacts, saved)
	if err := r.store(contacts); err != nil {
		return models.Contact{}, err
	}
	return saved, nil
}

func (r *LocalStorageContactRepository) Update(ctx context.Context, id string, patch models.ContactPatch) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contacts, err := r.load()
	if err != nil {
		return nil, err
	}

	for i, existing := range contacts {
		if existing.ID != id {
			continue
		}
		updated := existing.Apply(patch, r.opts.stamp())
		contacts[i] = updated
		if err := r.store(contacts); err != nil {
			return nil, err
		}
		return &updated, nil
	}
	return nil, nil
}

func (r *LocalStorageContactRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contacts, err := r.load()
	if err != nil {
		return false, err
	}

	remaining := make([]models.Contact, 0, len(contacts))
	for _, contact := range contacts {
		if contact.ID != id {
			remaining = append(remaining, contact)
		}
	}
	if len(remaining) == len(contacts) {
		return false, nil
	}

	if err := r.store(remaining); err != nil {
		return false, err
	}
	return true, nil
}

func (r *LocalStorageContactRepository) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contacts, err := r.load()
	if err != nil {
		return 0, err
	}
	return len(contacts), nil
}

// Close is a no-op; the storage has no handle to release
func (r *LocalStorageContactRepository) Close() error {
	return nil
}
