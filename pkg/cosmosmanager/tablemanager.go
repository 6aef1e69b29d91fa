package cosmosmanager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	// TablesDatabase is the single logical database that holds every table of an account.
	TablesDatabase = "TablesDB"
	// DefaultEntityCount is the number of test entities inserted when no count is given.
	DefaultEntityCount = 5
	// maxTransactionActions is the service limit on operations in one table transaction.
	maxTransactionActions = 100
)

// TableManagerOptions tunes the table manager.
type TableManagerOptions struct {
	DefaultEntityCount int
	// Rand drives test entity generation. A time seeded source is used when nil.
	Rand  *rand.Rand
	Retry RetryPolicy
}

// TableManager manages the tables of a Table account. Tables are presented as the collections
// of the TablesDB database.
type TableManager struct {
	client   TableStoreClient
	registry *DatabaseRegistry
	logger   zerolog.Logger
	opts     TableManagerOptions
}

// NewTableManager lists the account's tables and returns a manager for them.
func NewTableManager(ctx context.Context, client TableStoreClient, logger zerolog.Logger, opts TableManagerOptions) (*TableManager, error) {
	if client == nil {
		return nil, errors.New("table store client (TableStoreClient interface) cannot be nil")
	}
	if opts.DefaultEntityCount <= 0 {
		opts.DefaultEntityCount = DefaultEntityCount
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Retry == (RetryPolicy{}) {
		opts.Retry = DefaultRetryPolicy
	}
	tables, err := client.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to gather table information: %w", err)
	}
	if tables == nil {
		tables = []string{}
	}
	return &TableManager{
		client:   client,
		registry: NewDatabaseRegistry(map[string][]string{TablesDatabase: tables}),
		logger:   logger.With().Str("component", "TableManager").Logger(),
		opts:     opts,
	}, nil
}

func (tm *TableManager) Kind() APIKind { return APIKindTable }

func (tm *TableManager) Registry() *DatabaseRegistry { return tm.registry }

// CreateDatabase is not available: a table account has a single fixed database.
func (tm *TableManager) CreateDatabase(_ context.Context, _ string) error {
	return fmt.Errorf("%w: table accounts have a single database named %s", ErrUnsupported, TablesDatabase)
}

// DeleteDatabase is not available: a table account has a single fixed database.
func (tm *TableManager) DeleteDatabase(_ context.Context, _ string) error {
	return fmt.Errorf("%w: table accounts have a single database named %s", ErrUnsupported, TablesDatabase)
}

func (tm *TableManager) ListDatabases() []string {
	return []string{TablesDatabase}
}

// CreateCollection creates a table if it does not already exist. The database, partition key and
// throughput of spec are ignored.
func (tm *TableManager) CreateCollection(ctx context.Context, spec CollectionSpec) error {
	if strings.TrimSpace(spec.Name) == "" {
		return fmt.Errorf("%w: table name cannot be empty", ErrInvalidName)
	}
	if err := tm.client.CreateTable(ctx, spec.Name); err != nil {
		return fmt.Errorf("failed to create table '%s': %w", spec.Name, err)
	}
	tm.registry.AddCollection(TablesDatabase, spec.Name)
	tm.logger.Info().Str("table", spec.Name).Msg("Table created.")
	return nil
}

func (tm *TableManager) DeleteCollection(ctx context.Context, _ string, name string) error {
	if err := tm.client.DeleteTable(ctx, name); err != nil {
		return fmt.Errorf("failed to delete table '%s': %w", name, err)
	}
	tm.registry.RemoveCollection(TablesDatabase, name)
	tm.logger.Info().Str("table", name).Msg("Table deleted.")
	return nil
}

// ListCollections returns the tables of the account whatever database is named.
func (tm *TableManager) ListCollections(_ string) ([]string, error) {
	colls, _ := tm.registry.Collections(TablesDatabase)
	return colls, nil
}

// InsertDocuments generates req.Copies test entities and writes them in transactions of at most
// 100 entities. Files are not used.
func (tm *TableManager) InsertDocuments(ctx context.Context, req InsertRequest) (*InsertReport, error) {
	count := req.Copies
	if count <= 0 {
		count = tm.opts.DefaultEntityCount
	}
	entities := NewTestEntities(count, tm.opts.Rand)
	log := tm.logger.With().Str("table", req.Collection).Logger()
	log.Info().Int("entities", len(entities)).Msg("Starting entity insert...")

	report := &InsertReport{}
	start := time.Now()
	for _, batch := range lo.Chunk(entities, maxTransactionActions) {
		err := withRetry(ctx, tm.opts.Retry, isThrottled, func() error {
			return tm.client.AddEntities(ctx, req.Collection, batch)
		})
		if err != nil {
			report.Elapsed = time.Since(start)
			return report, fmt.Errorf("failed to insert entities into table '%s': %w", req.Collection, err)
		}
		for _, e := range batch {
			if payload, err := json.Marshal(e.Properties()); err == nil {
				report.Bytes += Document(payload).Size()
			}
		}
		report.Documents += len(batch)
	}
	report.Elapsed = time.Since(start)
	log.Info().Int("entities", report.Documents).Dur("elapsed", report.Elapsed).Msg("Entity insert completed.")
	return report, nil
}

func (tm *TableManager) Close(_ context.Context) error {
	return tm.client.Close()
}
