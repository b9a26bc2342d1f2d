package database

import (
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/alimgiray/phonebook/pkg/config"
	"github.com/go-sql-driver/mysql"
)

const defaultMySQLPoolSize = 10

// MySQLDSN builds the driver DSN for cfg. Times are parsed into time.Time and
// exchanged in UTC.
func MySQLDSN(cfg config.MySQLConfig) string {
	driverCfg := mysql.NewConfig()
	driverCfg.User = cfg.User
	driverCfg.Passwd = cfg.Password
	driverCfg.Net = "tcp"
	driverCfg.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	driverCfg.DBName = cfg.Database
	driverCfg.ParseTime = true
	driverCfg.Loc = time.UTC
	return driverCfg.FormatDSN()
}

// OpenMySQL opens a bounded connection pool against the configured server and
// ensures the schema exists. Callers beyond the pool size wait for a free
// connection rather than failing.
func OpenMySQL(cfg config.MySQLConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", MySQLDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open mysql db: %w", err)
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = defaultMySQLPoolSize
	}
	db.SetMaxOpenConns(poolSize)
	db.SetMaxIdleConns(poolSize)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql db: %w", err)
	}

	if err := RunMigrations(db, DialectMySQL); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
