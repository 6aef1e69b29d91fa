package cosmosmanager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// DefaultPartitionKeyPath is used for collections created without a partition key.
const DefaultPartitionKeyPath = "/id"

// DocumentManagerOptions tunes the document and graph managers.
type DocumentManagerOptions struct {
	// DefaultThroughput is given to new collections created without a throughput.
	DefaultThroughput int32
	// InsertParallelism bounds the number of in-flight document writes.
	InsertParallelism int
	Retry             RetryPolicy
}

func (o DocumentManagerOptions) withDefaults() DocumentManagerOptions {
	if o.DefaultThroughput <= 0 {
		o.DefaultThroughput = DefaultThroughput
	}
	if o.InsertParallelism <= 0 {
		o.InsertParallelism = 8
	}
	if o.Retry == (RetryPolicy{}) {
		o.Retry = DefaultRetryPolicy
	}
	return o
}

// DocumentManager manages databases, collections and documents of a SQL (document) account.
type DocumentManager struct {
	client   DocumentStoreClient
	registry *DatabaseRegistry
	logger   zerolog.Logger
	opts     DocumentManagerOptions
	kind     APIKind
}

// NewDocumentManager lists the account's databases and collections and returns a manager
// whose registry mirrors them.
func NewDocumentManager(ctx context.Context, client DocumentStoreClient, logger zerolog.Logger, opts DocumentManagerOptions) (*DocumentManager, error) {
	return newDocumentManager(ctx, client, logger.With().Str("component", "DocumentManager").Logger(), opts, APIKindDocument)
}

func newDocumentManager(ctx context.Context, client DocumentStoreClient, logger zerolog.Logger, opts DocumentManagerOptions, kind APIKind) (*DocumentManager, error) {
	if client == nil {
		return nil, errors.New("document store client (DocumentStoreClient interface) cannot be nil")
	}
	dm := &DocumentManager{
		client: client,
		logger: logger,
		opts:   opts.withDefaults(),
		kind:   kind,
	}
	listing, err := dm.gatherDatabaseInformation(ctx)
	if err != nil {
		return nil, err
	}
	dm.registry = NewDatabaseRegistry(listing)
	return dm, nil
}

func (dm *DocumentManager) gatherDatabaseInformation(ctx context.Context) (map[string][]string, error) {
	databases, err := dm.client.ListDatabases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to gather database information: %w", err)
	}
	listing := make(map[string][]string, len(databases))
	for _, db := range databases {
		colls, err := dm.client.ListContainers(ctx, db)
		if err != nil {
			return nil, fmt.Errorf("failed to list %ss of database '%s': %w", dm.kind.CollectionNoun(), db, err)
		}
		listing[db] = colls
	}
	return listing, nil
}

// Kind reports the API kind the manager serves.
func (dm *DocumentManager) Kind() APIKind { return dm.kind }

// Registry exposes the database registry.
func (dm *DocumentManager) Registry() *DatabaseRegistry { return dm.registry }

// CreateDatabase creates a database. An existing database is not an error.
func (dm *DocumentManager) CreateDatabase(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: database name cannot be empty", ErrInvalidName)
	}
	if err := dm.client.CreateDatabase(ctx, name); err != nil {
		return fmt.Errorf("failed to create database '%s': %w", name, err)
	}
	dm.registry.AddDatabase(name)
	dm.logger.Info().Str("database", name).Msg("Database created.")
	return nil
}

// DeleteDatabase deletes a database and all of its collections.
func (dm *DocumentManager) DeleteDatabase(ctx context.Context, name string) error {
	if err := dm.client.DeleteDatabase(ctx, name); err != nil {
		return fmt.Errorf("failed to delete database '%s': %w", name, err)
	}
	dm.registry.RemoveDatabase(name)
	dm.logger.Info().Str("database", name).Msg("Database deleted.")
	return nil
}

// ListDatabases returns the registered database names.
func (dm *DocumentManager) ListDatabases() []string {
	return dm.registry.Databases()
}

// CreateCollection creates a collection with a partition key and manual throughput.
func (dm *DocumentManager) CreateCollection(ctx context.Context, spec CollectionSpec) error {
	if strings.TrimSpace(spec.Name) == "" {
		return fmt.Errorf("%w: %s name cannot be empty", ErrInvalidName, dm.kind.CollectionNoun())
	}
	spec.PartitionKey = normalizePartitionKeyPath(spec.PartitionKey)
	if spec.Throughput <= 0 {
		spec.Throughput = dm.opts.DefaultThroughput
	}
	spec.Throughput = throughputOrDefault(spec.Throughput)

	log := dm.logger.With().Str("database", spec.Database).Str(dm.kind.CollectionNoun(), spec.Name).Logger()
	if err := dm.client.CreateContainer(ctx, spec); err != nil {
		return fmt.Errorf("failed to create %s '%s' in database '%s': %w", dm.kind.CollectionNoun(), spec.Name, spec.Database, err)
	}
	dm.registry.AddCollection(spec.Database, spec.Name)
	log.Info().Str("partition_key", spec.PartitionKey).Int32("throughput", spec.Throughput).Msg("Collection created.")
	return nil
}

// DeleteCollection deletes a collection from a database.
func (dm *DocumentManager) DeleteCollection(ctx context.Context, database, name string) error {
	if err := dm.client.DeleteContainer(ctx, database, name); err != nil {
		return fmt.Errorf("failed to delete %s '%s' from database '%s': %w", dm.kind.CollectionNoun(), name, database, err)
	}
	dm.registry.RemoveCollection(database, name)
	dm.logger.Info().Str("database", database).Str(dm.kind.CollectionNoun(), name).Msg("Collection deleted.")
	return nil
}

// ListCollections returns the registered collections of a database.
func (dm *DocumentManager) ListCollections(database string) ([]string, error) {
	colls, ok := dm.registry.Collections(database)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrDatabaseNotFound, database)
	}
	return colls, nil
}

// InsertDocuments loads the request's files, repeats them and writes every copy with bounded
// parallelism. The report covers the documents written before any failure.
func (dm *DocumentManager) InsertDocuments(ctx context.Context, req InsertRequest) (*InsertReport, error) {
	docs, err := LoadDocuments(req.Files)
	if err != nil {
		return nil, err
	}
	pkPath, err := dm.client.PartitionKeyPath(ctx, req.Database, req.Collection)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s '%s': %w", dm.kind.CollectionNoun(), req.Collection, err)
	}
	batch := Repeat(docs, req.Copies)
	log := dm.logger.With().Str("database", req.Database).Str(dm.kind.CollectionNoun(), req.Collection).Logger()
	log.Info().Int("documents", len(batch)).Int("parallelism", dm.opts.InsertParallelism).Msg("Starting document insert...")

	var (
		mu     sync.Mutex
		report InsertReport
	)
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dm.opts.InsertParallelism)
	for _, doc := range batch {
		doc := doc
		g.Go(func() error {
			withID, id, err := EnsureID(doc)
			if err != nil {
				return err
			}
			pk := partitionKeyArg(PartitionKeyValue(withID, pkPath))
			var charge float64
			err = withRetry(gctx, dm.opts.Retry, isThrottled, func() error {
				var createErr error
				charge, createErr = dm.client.CreateItem(gctx, req.Database, req.Collection, pk, withID)
				return createErr
			})
			if err != nil {
				return fmt.Errorf("failed to insert document '%s': %w", id, err)
			}
			mu.Lock()
			report.Documents++
			report.Bytes += withID.Size()
			report.RequestCharge += charge
			mu.Unlock()
			return nil
		})
	}
	err = g.Wait()
	report.Elapsed = time.Since(start)
	if err != nil {
		return &report, err
	}
	log.Info().Int("documents", report.Documents).Str("bytes", report.Bytes.String()).
		Float64("request_charge", report.RequestCharge).Dur("elapsed", report.Elapsed).Msg("Document insert completed.")
	return &report, nil
}

// Query runs a SQL query against a collection.
func (dm *DocumentManager) Query(ctx context.Context, database, collection, query string) (*QueryReport, error) {
	if strings.TrimSpace(query) == "" {
		query = selectAll
	}
	start := time.Now()
	items, charge, err := dm.client.QueryItems(ctx, database, collection, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s '%s': %w", dm.kind.CollectionNoun(), collection, err)
	}
	report := &QueryReport{
		Items:         make([]json.RawMessage, 0, len(items)),
		ItemCount:     len(items),
		RequestCharge: charge,
		Elapsed:       time.Since(start),
	}
	for _, item := range items {
		report.Items = append(report.Items, json.RawMessage(item))
	}
	return report, nil
}

// DeleteByQuery deletes every document matched by query, or every document when query is empty.
// When partitionKeyPath is empty the collection's own partition key path is used.
func (dm *DocumentManager) DeleteByQuery(ctx context.Context, database, collection, query, partitionKeyPath string) (int, error) {
	if strings.TrimSpace(query) == "" {
		query = selectAll
	}
	if partitionKeyPath == "" {
		path, err := dm.client.PartitionKeyPath(ctx, database, collection)
		if err != nil {
			return 0, fmt.Errorf("failed to read %s '%s': %w", dm.kind.CollectionNoun(), collection, err)
		}
		partitionKeyPath = path
	}
	items, _, err := dm.client.QueryItems(ctx, database, collection, query)
	if err != nil {
		return 0, fmt.Errorf("failed to query %s '%s': %w", dm.kind.CollectionNoun(), collection, err)
	}
	deleted := 0
	var errs []error
	for _, item := range items {
		id := gjson.GetBytes(item, "id").String()
		if id == "" {
			continue
		}
		pk := partitionKeyArg(PartitionKeyValue(item, normalizePartitionKeyPath(partitionKeyPath)))
		if _, err := dm.client.DeleteItem(ctx, database, collection, pk, id); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete document '%s': %w", id, err))
			continue
		}
		deleted++
	}
	dm.logger.Info().Str("database", database).Str(dm.kind.CollectionNoun(), collection).Int("deleted", deleted).Msg("Delete by query completed.")
	return deleted, errors.Join(errs...)
}

// Close releases the underlying client.
func (dm *DocumentManager) Close(_ context.Context) error {
	return dm.client.Close()
}

// partitionKeyArg turns a looked up key into the value handed to the store. A missing key is
// UndefinedPartitionKey, a JSON null is nil.
func partitionKeyArg(value gjson.Result, ok bool) any {
	if !ok {
		return UndefinedPartitionKey{}
	}
	return value.Value()
}

func normalizePartitionKeyPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultPartitionKeyPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
