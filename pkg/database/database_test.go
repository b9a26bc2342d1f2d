package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/alimgiray/phonebook/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phonebook.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file should be created")

	for _, name := range []string{"contacts", "idx_contacts_phone", "idx_contacts_name"} {
		var found string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE name = ?", name).Scan(&found)
		assert.NoError(t, err, "schema object %q should exist", name)
	}
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phonebook.db")

	for i := 0; i < 3; i++ {
		db, err := OpenSQLite(path)
		require.NoError(t, err, "open iteration %d", i)
		require.NoError(t, db.Close())
	}
}

func TestOpenSQLite_UnicodeLower(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "phonebook.db"))
	require.NoError(t, err)
	defer db.Close()

	var lowered string
	require.NoError(t, db.QueryRow("SELECT "+SQLiteLowerFunc+"(?)", "ÉMILE Ærø").Scan(&lowered))
	assert.Equal(t, "émile ærø", lowered)

	var null sql.NullString
	require.NoError(t, db.QueryRow("SELECT "+SQLiteLowerFunc+"(NULL)").Scan(&null))
	assert.False(t, null.Valid)
}

func TestOpenSQLite_RequiresPath(t *testing.T) {
	_, err := OpenSQLite("  ")
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(config.MySQLConfig{
		Host:     "db.internal",
		Port:     3307,
		User:     "phonebook_user",
		Password: "secret",
		Database: "phonebook",
	})

	assert.Contains(t, dsn, "phonebook_user:secret@tcp(db.internal:3307)/phonebook")
	assert.Contains(t, dsn, "parseTime=true")
}
