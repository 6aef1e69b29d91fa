package cosmosmanager

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// cosmosMongoPort is the port of the MongoDB wire protocol endpoint of a Cosmos DB account.
const cosmosMongoPort = 10255

// MongoClient abstracts the MongoDB calls made against a Cosmos DB MongoDB account.
type MongoClient interface {
	ListDatabaseNames(ctx context.Context) ([]string, error)
	ListCollectionNames(ctx context.Context, database string) ([]string, error)
	CreateDatabase(ctx context.Context, name string) error
	DropDatabase(ctx context.Context, name string) error
	CreateCollection(ctx context.Context, spec CollectionSpec) error
	DropCollection(ctx context.Context, database, name string) error
	// InsertMany writes documents given as extended JSON and returns how many were written.
	InsertMany(ctx context.Context, database, collection string, docs []Document) (int, error)
	Disconnect(ctx context.Context) error
}

// MongoConnectionString builds the connection string of a Cosmos DB MongoDB account.
func MongoConnectionString(accountName, key, host string) string {
	return fmt.Sprintf("mongodb://%s:%s@%s:%d/?ssl=true&replicaSet=globaldb",
		url.QueryEscape(accountName), url.QueryEscape(key), host, cosmosMongoPort)
}

// driverMongoClient implements MongoClient with the official driver.
type driverMongoClient struct {
	client *mongo.Client
}

// NewDriverMongoClient connects to uri requiring TLS 1.2 or later.
func NewDriverMongoClient(ctx context.Context, uri string) (MongoClient, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12}).
		SetRetryWrites(false)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo endpoint: %w", err)
	}
	return &driverMongoClient{client: client}, nil
}

func (c *driverMongoClient) ListDatabaseNames(ctx context.Context) ([]string, error) {
	return c.client.ListDatabaseNames(ctx, bson.D{})
}

func (c *driverMongoClient) ListCollectionNames(ctx context.Context, database string) ([]string, error) {
	return c.client.Database(database).ListCollectionNames(ctx, bson.D{})
}

// CreateDatabase uses the Cosmos DB extension command, since MongoDB creates databases lazily.
func (c *driverMongoClient) CreateDatabase(ctx context.Context, name string) error {
	cmd := bson.D{{Key: "customAction", Value: "CreateDatabase"}}
	return c.client.Database(name).RunCommand(ctx, cmd).Err()
}

func (c *driverMongoClient) DropDatabase(ctx context.Context, name string) error {
	return c.client.Database(name).Drop(ctx)
}

func (c *driverMongoClient) CreateCollection(ctx context.Context, spec CollectionSpec) error {
	cmd := bson.D{
		{Key: "customAction", Value: "CreateCollection"},
		{Key: "collection", Value: spec.Name},
	}
	if spec.Throughput > 0 {
		cmd = append(cmd, bson.E{Key: "offerThroughput", Value: spec.Throughput})
	}
	if spec.PartitionKey != "" {
		cmd = append(cmd, bson.E{Key: "shardKey", Value: spec.PartitionKey})
	}
	return c.client.Database(spec.Database).RunCommand(ctx, cmd).Err()
}

func (c *driverMongoClient) DropCollection(ctx context.Context, database, name string) error {
	return c.client.Database(database).Collection(name).Drop(ctx)
}

func (c *driverMongoClient) InsertMany(ctx context.Context, database, collection string, docs []Document) (int, error) {
	batch := make([]interface{}, 0, len(docs))
	for i, d := range docs {
		var doc bson.D
		if err := bson.UnmarshalExtJSON(d, false, &doc); err != nil {
			return 0, fmt.Errorf("document %d is not valid extended JSON: %w", i, err)
		}
		batch = append(batch, doc)
	}
	res, err := c.client.Database(database).Collection(collection).InsertMany(ctx, batch)
	if err != nil {
		if res != nil {
			return len(res.InsertedIDs), err
		}
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

func (c *driverMongoClient) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
