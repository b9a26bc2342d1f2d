package database

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/alimgiray/phonebook/pkg/logger"
)

//go:embed migrations/sqlite/*.sql migrations/mysql/*.sql
var migrationsFS embed.FS

// Dialect names the SQL flavour a handle speaks
type Dialect string

const (
	DialectSQLite Dialect = "sqlite"
	DialectMySQL  Dialect = "mysql"
)

// RunMigrations executes the embedded SQL scripts for the dialect in file name order.
// Every script is idempotent (CREATE ... IF NOT EXISTS), so it is safe to run on each start.
func RunMigrations(db *sql.DB, dialect Dialect) error {
	dir := path.Join("migrations", string(dialect))
	files, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("read migrations for %s: %w", dialect, err)
	}

	var names []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			names = append(names, file.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		sqlContent, err := fs.ReadFile(migrationsFS, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		// Execute the SQL script
		if _, err := db.Exec(string(sqlContent)); err != nil {
			return fmt.Errorf("exec migration %s: %w", name, err)
		}

		logger.WithField("dialect", dialect).Debugf("Executed SQL script: %s", name)
	}

	return nil
}
