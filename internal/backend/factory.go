package backend

import (
	"context"
	"fmt"
	"log/slog"

	gsheet "campfin/internal/source/google"
	"campfin/internal/source/memory"
	"campfin/internal/storage"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateSource implements Factory.CreateSource.
func (f *DefaultFactory) CreateSource(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteSource:
		return f.createSQLiteSource(config)
	case SheetsSource:
		return f.createSheetsSource(ctx, config)
	case MemorySource:
		return f.createMemorySource(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteSource(config Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite source", "db_path", config.SQLiteDBPath)

	return &Result{
		Source:  repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsSource(ctx context.Context, config Config) (*Result, error) {
	cli, err := gsheet.New(ctx, config.GoogleSpreadsheetID, config.GoogleRosterSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets source",
		"spreadsheet_id", config.GoogleSpreadsheetID)

	return &Result{
		Source:  cli,
		Cleanup: nil, // nothing to release
	}, nil
}

func (f *DefaultFactory) createMemorySource(config Config) (*Result, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}

	store := memory.NewFromFiles(dataDir)

	f.logger.Info("Initialized memory source", "data_directory", dataDir)

	return &Result{
		Source:  store,
		Cleanup: nil,
	}, nil
}
