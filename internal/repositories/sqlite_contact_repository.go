package repositories

import (
	"database/sql"
	"time"

	"github.com/alimgiray/phonebook/pkg/database"
)

// sqliteTimeLayout matches JavaScript's Date.toISOString output
const sqliteTimeLayout = "2006-01-02T15:04:05.000Z"

// SQLiteContactRepository stores contacts in an embedded SQLite file.
// Timestamps are kept as ISO-8601 text.
type SQLiteContactRepository struct {
	sqlContactRepository
}

var _ ContactRepository = (*SQLiteContactRepository)(nil)

// NewSQLiteContactRepository takes ownership of db; Close closes it.
// The schema is expected to exist (see database.OpenSQLite).
func NewSQLiteContactRepository(db *sql.DB, opts ...Option) *SQLiteContactRepository {
	return &SQLiteContactRepository{
		sqlContactRepository: sqlContactRepository{
			db: db,
			dialect: sqlDialect{
				name:      "sqlite",
				lowerFunc: database.SQLiteLowerFunc,
				encodeTime: func(t time.Time) any {
					return t.UTC().Format(sqliteTimeLayout)
				},
			},
			opts: newOptions(opts),
		},
	}
}
