package cosmosmanager

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// mongoInsertBatchSize bounds the number of documents sent in one InsertMany call.
const mongoInsertBatchSize = 100

// MongoManager manages databases, collections and documents of a MongoDB account.
type MongoManager struct {
	client   MongoClient
	registry *DatabaseRegistry
	logger   zerolog.Logger
	opts     DocumentManagerOptions
}

// NewMongoManager lists the account's databases and collections and returns a manager for them.
func NewMongoManager(ctx context.Context, client MongoClient, logger zerolog.Logger, opts DocumentManagerOptions) (*MongoManager, error) {
	if client == nil {
		return nil, errors.New("mongo client (MongoClient interface) cannot be nil")
	}
	mm := &MongoManager{
		client: client,
		logger: logger.With().Str("component", "MongoManager").Logger(),
		opts:   opts.withDefaults(),
	}
	databases, err := client.ListDatabaseNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to gather database information: %w", err)
	}
	listing := make(map[string][]string, len(databases))
	for _, db := range databases {
		colls, err := client.ListCollectionNames(ctx, db)
		if err != nil {
			return nil, fmt.Errorf("failed to list collections of database '%s': %w", db, err)
		}
		listing[db] = colls
	}
	mm.registry = NewDatabaseRegistry(listing)
	return mm, nil
}

func (mm *MongoManager) Kind() APIKind { return APIKindMongo }

func (mm *MongoManager) Registry() *DatabaseRegistry { return mm.registry }

func (mm *MongoManager) CreateDatabase(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: database name cannot be empty", ErrInvalidName)
	}
	if err := mm.client.CreateDatabase(ctx, name); err != nil {
		return fmt.Errorf("failed to create database '%s': %w", name, err)
	}
	mm.registry.AddDatabase(name)
	mm.logger.Info().Str("database", name).Msg("Database created.")
	return nil
}

func (mm *MongoManager) DeleteDatabase(ctx context.Context, name string) error {
	if err := mm.client.DropDatabase(ctx, name); err != nil {
		return fmt.Errorf("failed to drop database '%s': %w", name, err)
	}
	mm.registry.RemoveDatabase(name)
	mm.logger.Info().Str("database", name).Msg("Database dropped.")
	return nil
}

func (mm *MongoManager) ListDatabases() []string {
	return mm.registry.Databases()
}

// CreateCollection creates a collection. The partition key, when given, becomes the shard key.
func (mm *MongoManager) CreateCollection(ctx context.Context, spec CollectionSpec) error {
	if strings.TrimSpace(spec.Name) == "" {
		return fmt.Errorf("%w: collection name cannot be empty", ErrInvalidName)
	}
	spec.PartitionKey = strings.TrimPrefix(strings.TrimSpace(spec.PartitionKey), "/")
	if spec.Throughput <= 0 {
		spec.Throughput = mm.opts.DefaultThroughput
	}
	spec.Throughput = throughputOrDefault(spec.Throughput)
	if err := mm.client.CreateCollection(ctx, spec); err != nil {
		return fmt.Errorf("failed to create collection '%s' in database '%s': %w", spec.Name, spec.Database, err)
	}
	mm.registry.AddCollection(spec.Database, spec.Name)
	mm.logger.Info().Str("database", spec.Database).Str("collection", spec.Name).Msg("Collection created.")
	return nil
}

func (mm *MongoManager) DeleteCollection(ctx context.Context, database, name string) error {
	if err := mm.client.DropCollection(ctx, database, name); err != nil {
		return fmt.Errorf("failed to drop collection '%s' from database '%s': %w", name, database, err)
	}
	mm.registry.RemoveCollection(database, name)
	mm.logger.Info().Str("database", database).Str("collection", name).Msg("Collection dropped.")
	return nil
}

func (mm *MongoManager) ListCollections(database string) ([]string, error) {
	colls, ok := mm.registry.Collections(database)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrDatabaseNotFound, database)
	}
	return colls, nil
}

// InsertDocuments loads the request's files, repeats them and writes them in batches, retrying
// a batch while the account throttles.
func (mm *MongoManager) InsertDocuments(ctx context.Context, req InsertRequest) (*InsertReport, error) {
	docs, err := LoadDocuments(req.Files)
	if err != nil {
		return nil, err
	}
	all := Repeat(docs, req.Copies)
	log := mm.logger.With().Str("database", req.Database).Str("collection", req.Collection).Logger()
	log.Info().Int("documents", len(all)).Msg("Starting document insert...")

	report := &InsertReport{}
	start := time.Now()
	for _, batch := range lo.Chunk(all, mongoInsertBatchSize) {
		remaining := batch
		err := withRetry(ctx, mm.opts.Retry, isThrottled, func() error {
			written, insertErr := mm.client.InsertMany(ctx, req.Database, req.Collection, remaining)
			written = min(written, len(remaining))
			for _, d := range remaining[:written] {
				report.Bytes += d.Size()
			}
			report.Documents += written
			remaining = remaining[written:]
			return insertErr
		})
		if err != nil {
			report.Elapsed = time.Since(start)
			return report, fmt.Errorf("failed to insert documents into collection '%s': %w", req.Collection, err)
		}
	}
	report.Elapsed = time.Since(start)
	log.Info().Int("documents", report.Documents).Str("bytes", report.Bytes.String()).Dur("elapsed", report.Elapsed).Msg("Document insert completed.")
	return report, nil
}

// Close disconnects from the account.
func (mm *MongoManager) Close(ctx context.Context) error {
	return mm.client.Disconnect(ctx)
}
