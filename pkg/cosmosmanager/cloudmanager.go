package cosmosmanager

import (
	"context"
	"encoding/json"
	"time"

	"github.com/inhies/go-bytesize"
)

// DefaultThroughput is the manual throughput, in request units per second, given to new
// collections when none is requested.
const (
	DefaultThroughput = 1000
	MinThroughput     = 400
	MaxThroughput     = 1000000
)

// CollectionSpec describes a collection (graph, table) to create.
type CollectionSpec struct {
	Database     string
	Name         string
	PartitionKey string
	Throughput   int32
}

// InsertRequest describes a bulk insert. Files are loaded from disk and repeated Copies times.
// Table managers ignore Files and insert Copies generated entities instead.
type InsertRequest struct {
	Database   string
	Collection string
	Files      []string
	Copies     int
}

// InsertReport summarises a bulk insert.
type InsertReport struct {
	Documents     int               `json:"documents" yaml:"documents"`
	Bytes         bytesize.ByteSize `json:"bytes" yaml:"bytes"`
	RequestCharge float64           `json:"requestCharge" yaml:"request_charge"`
	Elapsed       time.Duration     `json:"elapsed" yaml:"elapsed"`
}

// QueryReport is the result of a query over a collection.
type QueryReport struct {
	Items         []json.RawMessage `json:"items" yaml:"-"`
	ItemCount     int               `json:"itemCount" yaml:"item_count"`
	RequestCharge float64           `json:"requestCharge" yaml:"request_charge"`
	Elapsed       time.Duration     `json:"elapsed" yaml:"elapsed"`
}

// DatabaseManager is the common surface of the per-API managers. Each manager keeps a
// DatabaseRegistry in step with the account and only changes it after the remote call succeeds.
type DatabaseManager interface {
	Kind() APIKind
	CreateDatabase(ctx context.Context, name string) error
	DeleteDatabase(ctx context.Context, name string) error
	ListDatabases() []string
	CreateCollection(ctx context.Context, spec CollectionSpec) error
	DeleteCollection(ctx context.Context, database, name string) error
	ListCollections(database string) ([]string, error)
	InsertDocuments(ctx context.Context, req InsertRequest) (*InsertReport, error)
	Registry() *DatabaseRegistry
	Close(ctx context.Context) error
}

// Querier is implemented by managers that can run SQL queries against a collection.
type Querier interface {
	Query(ctx context.Context, database, collection, query string) (*QueryReport, error)
	DeleteByQuery(ctx context.Context, database, collection, query, partitionKeyPath string) (int, error)
}

// Compile-time checks.
var (
	_ DatabaseManager = (*DocumentManager)(nil)
	_ Querier         = (*DocumentManager)(nil)
	_ DatabaseManager = (*GraphManager)(nil)
	_ Querier         = (*GraphManager)(nil)
	_ DatabaseManager = (*MongoManager)(nil)
	_ DatabaseManager = (*TableManager)(nil)
)

func throughputOrDefault(rus int32) int32 {
	if rus <= 0 {
		return DefaultThroughput
	}
	if rus < MinThroughput {
		return MinThroughput
	}
	return min(rus, MaxThroughput)
}
