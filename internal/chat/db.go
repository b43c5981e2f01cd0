package chat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// StoreConfig — DatabaseURL wins over DatabasePath when both are set.
type StoreConfig struct {
	DatabaseURL  string
	DatabasePath string
}

func SQLiteDSNForFile(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("sqlite store: empty path")
	}
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path), nil
}

// OpenDB opens and pings the process-wide database handle.
func OpenDB(ctx context.Context, cfg StoreConfig) (*sqlx.DB, error) {
	driver, dsn := "postgres", cfg.DatabaseURL
	if dsn == "" {
		if dir := filepath.Dir(cfg.DatabasePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(err, "create data directory")
			}
		}
		var err error
		if dsn, err = SQLiteDSNForFile(cfg.DatabasePath); err != nil {
			return nil, err
		}
		driver = "sqlite3"
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", driver)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "ping %s", driver)
	}
	return db, nil
}
