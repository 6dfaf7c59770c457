package server

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/devicekeeper/internal/dbx"
	"github.com/dmitrijs2005/devicekeeper/internal/logging"
	"github.com/dmitrijs2005/devicekeeper/internal/server/config"
	"github.com/dmitrijs2005/devicekeeper/internal/server/repositories/repomanager"
)

// OpenRepositories builds the repository manager for the configured storage
// and bootstraps its schema. A bootstrap failure closes the store and is
// returned as is.
func OpenRepositories(ctx context.Context, c *config.Config, l logging.Logger) (repomanager.RepositoryManager, error) {
	var rm repomanager.RepositoryManager

	switch c.Storage {
	case config.StorageMemory:
		rm = repomanager.NewMemoryRepositoryManager()
	case config.StoragePostgres:
		cm, err := dbx.Open(c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager(cm, repomanager.Config{
			DeviceSchema: c.DeviceSchema,
			AuthSchema:   c.AuthSchema,
		}, l)
	default:
		return nil, fmt.Errorf("unknown storage %q", c.Storage)
	}

	if err := rm.Bootstrap(ctx); err != nil {
		_ = rm.Close()
		return nil, err
	}
	return rm, nil
}
