package cosmosmanager

import (
	"context"
)

// UndefinedPartitionKey stands for a document that has no value at the partition key path,
// as opposed to a JSON null.
type UndefinedPartitionKey struct{}

// DocumentStoreClient abstracts the data-plane calls on a SQL (document) or graph account.
// Partition key values are plain Go values: string, float64, bool, nil or UndefinedPartitionKey.
type DocumentStoreClient interface {
	ListDatabases(ctx context.Context) ([]string, error)
	ListContainers(ctx context.Context, database string) ([]string, error)
	// CreateDatabase must treat an existing database as success.
	CreateDatabase(ctx context.Context, name string) error
	DeleteDatabase(ctx context.Context, name string) error
	CreateContainer(ctx context.Context, spec CollectionSpec) error
	DeleteContainer(ctx context.Context, database, container string) error
	// PartitionKeyPath returns the first partition key path of a container.
	PartitionKeyPath(ctx context.Context, database, container string) (string, error)
	// CreateItem stores a document and returns the request charge.
	CreateItem(ctx context.Context, database, container string, partitionKey any, item []byte) (float64, error)
	// QueryItems runs a cross-partition query and returns every page of results.
	QueryItems(ctx context.Context, database, container, query string) ([][]byte, float64, error)
	DeleteItem(ctx context.Context, database, container string, partitionKey any, id string) (float64, error)
	Close() error
}
