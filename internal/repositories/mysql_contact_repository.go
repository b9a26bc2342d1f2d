package repositories

import (
	"database/sql"
	"time"
)

// MySQLContactRepository stores contacts on a MySQL server through a shared,
// bounded connection pool. Timestamps use native DATETIME(3) columns.
type MySQLContactRepository struct {
	sqlContactRepository
}

var _ ContactRepository = (*MySQLContactRepository)(nil)

// NewMySQLContactRepository takes ownership of the pool; Close shuts it down.
// The schema is expected to exist (see database.OpenMySQL).
func NewMySQLContactRepository(db *sql.DB, opts ...Option) *MySQLContactRepository {
	return &MySQLContactRepository{
		sqlContactRepository: sqlContactRepository{
			db: db,
			dialect: sqlDialect{
				name:        "mysql",
				lowerFunc:   "LOWER",
				textCollate: " COLLATE utf8mb4_bin",
				encodeTime: func(t time.Time) any {
					return t.UTC()
				},
			},
			opts: newOptions(opts),
		},
	}
}
