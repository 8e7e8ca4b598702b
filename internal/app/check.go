package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/eliseohh/helpdeskbot/internal/config"
	"github.com/eliseohh/helpdeskbot/internal/store"
)

type CheckResult struct {
	Name    string
	Skipped bool
	Err     error
}

// Check verifies what Run needs without contacting the Bot API.
func Check(ctx context.Context, cfg *config.Config) []CheckResult {
	results := []CheckResult{{Name: "config", Err: cfg.Validate()}}

	results = append(results, CheckResult{Name: "database", Err: checkDatabase(cfg.DBPath)})

	if cfg.Redis.Addr == "" {
		results = append(results, CheckResult{Name: "redis", Skipped: true})
	} else {
		_, closeFn, err := newCooldownStore(ctx, cfg.Redis, zap.NewNop())
		if err == nil {
			closeFn()
		}
		results = append(results, CheckResult{Name: "redis", Err: err})
	}

	results = append(results, CheckResult{Name: "log file", Err: checkLogFile(cfg.LogFile)})
	return results
}

func checkDatabase(path string) error {
	db, err := store.NewDB(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.InitSchema()
}

func checkLogFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("log file not writable: %w", err)
	}
	return f.Close()
}
