package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alimgiray/phonebook/internal/models"
)

const contactColumns = `id, firstName, lastName, phoneNumber, email, address, notes, createdAt, updatedAt`

// sqlDialect holds the few places where SQLite and MySQL differ
type sqlDialect struct {
	name string
	// lowerFunc is the SQL function used for case-insensitive ordering and matching
	lowerFunc string
	// textCollate is appended to lowered text expressions so ordering and
	// matching compare bytes on every backend
	textCollate string
	encodeTime  func(time.Time) any
}

// sqlContactRepository implements ContactRepository on a *sql.DB.
// The SQLite and MySQL adapters share it and differ only by dialect.
type sqlContactRepository struct {
	db      *sql.DB
	dialect sqlDialect
	opts    options
}

func (r *sqlContactRepository) lower(column string) string {
	return r.dialect.lowerFunc + "(" + column + ")" + r.dialect.textCollate
}

func (r *sqlContactRepository) orderBy() string {
	return " ORDER BY " + r.lower("firstName") + ", " + r.lower("lastName") + ", id"
}

func (r *sqlContactRepository) storageError(op string, err error) error {
	return models.NewStorageError(r.dialect.name+": "+op, err)
}

// FindAll retrieves every contact
func (r *sqlContactRepository) FindAll(ctx context.Context) ([]models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts` + r.orderBy()

	contacts, err := r.queryContacts(ctx, query)
	if err != nil {
		return nil, r.storageError("find all contacts", err)
	}
	return contacts, nil
}

// FindByID retrieves a contact by ID
func (r *sqlContactRepository) FindByID(ctx context.Context, id string) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = ?`

	contact, err := r.queryContact(ctx, query, id)
	if err != nil {
		return nil, r.storageError("find contact by id", err)
	}
	return contact, nil
}

// FindByPhoneNumber retrieves a contact by normalized phone number
func (r *sqlContactRepository) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE phoneNumber = ? ORDER BY createdAt, id LIMIT 1`

	contact, err := r.queryContact(ctx, query, phoneNumber)
	if err != nil {
		return nil, r.storageError("find contact by phone number", err)
	}
	return contact, nil
}

// Search retrieves contacts matching query
func (r *sqlContactRepository) Search(ctx context.Context, query string) ([]models.Contact, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	statement := `SELECT ` + contactColumns + ` FROM contacts
		WHERE ` + r.lower("firstName") + ` LIKE ? ESCAPE '!'
			OR ` + r.lower("lastName") + ` LIKE ? ESCAPE '!'
			OR phoneNumber LIKE ? ESCAPE '!'
			OR ` + r.lower("email") + ` LIKE ? ESCAPE '!'` + r.orderBy()

	contacts, err := r.queryContacts(ctx, statement, pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, r.storageError("search contacts", err)
	}
	return contacts, nil
}

// Save inserts a new contact
func (r *sqlContactRepository) Save(ctx context.Context, contact models.Contact) (models.Contact, error) {
	saved := r.opts.prepareForSave(contact)

	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		saved.ID,
		saved.FirstName,
		saved.LastName,
		saved.PhoneNumber,
		nullString(saved.Email),
		nullString(saved.Address),
		nullString(saved.Notes),
		r.dialect.encodeTime(saved.CreatedAt),
		r.dialect.encodeTime(saved.UpdatedAt),
	)
	if err != nil {
		return models.Contact{}, r.storageError("insert contact", err)
	}

	return saved, nil
}

// Update merges patch into the stored contact
func (r *sqlContactRepository) Update(ctx context.Context, id string, patch models.ContactPatch) (*models.Contact, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}

	updated := existing.Apply(patch, r.opts.stamp())

	query := `
		UPDATE contacts
		SET firstName = ?, lastName = ?, phoneNumber = ?, email = ?, address = ?, notes = ?, updatedAt = ?
		WHERE id = ?
	`

	_, err = r.db.ExecContext(ctx, query,
		updated.FirstName,
		updated.LastName,
		updated.PhoneNumber,
		nullString(updated.Email),
		nullString(updated.Address),
		nullString(updated.Notes),
		r.dialect.encodeTime(updated.UpdatedAt),
		id,
	)
	if err != nil {
		return nil, r.storageError("update contact", err)
	}

	// Re-read so a row deleted concurrently reports as not found
	return r.FindByID(ctx, id)
}

// Delete deletes a contact by ID
func (r *sqlContactRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return false, r.storageError("delete contact", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, r.storageError("delete contact", err)
	}
	return affected > 0, nil
}

// Count returns the number of stored contacts
func (r *sqlContactRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&count); err != nil {
		return 0, r.storageError("count contacts", err)
	}
	return count, nil
}

// Close closes the database handle
func (r *sqlContactRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *sqlContactRepository) queryContact(ctx context.Context, query string, args ...any) (*models.Contact, error) {
	row := r.db.QueryRowContext(ctx, query, args...)

	contact, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *sqlContactRepository) queryContacts(ctx context.Context, query string, args ...any) ([]models.Contact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}

	return contacts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (models.Contact, error) {
	var contact models.Contact
	var email, address, notes sql.NullString

	err := row.Scan(
		&contact.ID,
		&contact.FirstName,
		&contact.LastName,
		&contact.PhoneNumber,
		&email,
		&address,
		&notes,
		timestampScanner{&contact.CreatedAt},
		timestampScanner{&contact.UpdatedAt},
	)
	if err != nil {
		return models.Contact{}, err
	}

	contact.Email = email.String
	contact.Address = address.String
	contact.Notes = notes.String
	return contact, nil
}

// timestampScanner reads either a native datetime or ISO-8601 text into a UTC time
type timestampScanner struct {
	dest *time.Time
}

func (s timestampScanner) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*s.dest = normalizeTime(v)
		return nil
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (s timestampScanner) parse(value string) error {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	*s.dest = normalizeTime(t)
	return nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

// escapeLike makes LIKE wildcards in a search query match literally, using '!' as the escape character
func escapeLike(query string) string {
	replacer := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return replacer.Replace(query)
}
