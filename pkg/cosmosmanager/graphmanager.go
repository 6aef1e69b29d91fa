package cosmosmanager

import (
	"context"

	"github.com/rs/zerolog"
)

// GraphManager manages the databases and graphs of a Gremlin account. Graphs are containers
// reached over the account's SQL endpoint, so every operation is a DocumentManager operation.
type GraphManager struct {
	*DocumentManager
}

// NewGraphManager lists the account's databases and graphs and returns a manager for them.
func NewGraphManager(ctx context.Context, client DocumentStoreClient, logger zerolog.Logger, opts DocumentManagerOptions) (*GraphManager, error) {
	dm, err := newDocumentManager(ctx, client, logger.With().Str("component", "GraphManager").Logger(), opts, APIKindGraph)
	if err != nil {
		return nil, err
	}
	return &GraphManager{DocumentManager: dm}, nil
}
