package cosmosmanager

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
)

const selectAll = "SELECT * FROM c"

// cosmosDocumentClient implements DocumentStoreClient with the azcosmos SDK.
type cosmosDocumentClient struct {
	client *azcosmos.Client
}

// NewCosmosDocumentClient opens a key-authenticated client against an account endpoint.
func NewCosmosDocumentClient(endpoint, key string) (DocumentStoreClient, error) {
	cred, err := azcosmos.NewKeyCredential(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cosmos key credential: %w", err)
	}
	client, err := azcosmos.NewClientWithKey(endpoint, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cosmos client for '%s': %w", endpoint, err)
	}
	return &cosmosDocumentClient{client: client}, nil
}

func (c *cosmosDocumentClient) ListDatabases(ctx context.Context) ([]string, error) {
	pager := c.client.NewQueryDatabasesPager(selectAll, nil)
	var names []string
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, db := range page.Databases {
			names = append(names, db.ID)
		}
	}
	return names, nil
}

func (c *cosmosDocumentClient) ListContainers(ctx context.Context, database string) ([]string, error) {
	db, err := c.client.NewDatabase(database)
	if err != nil {
		return nil, err
	}
	pager := db.NewQueryContainersPager(selectAll, nil)
	var names []string
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, container := range page.Containers {
			names = append(names, container.ID)
		}
	}
	return names, nil
}

func (c *cosmosDocumentClient) CreateDatabase(ctx context.Context, name string) error {
	_, err := c.client.CreateDatabase(ctx, azcosmos.DatabaseProperties{ID: name}, nil)
	if err != nil && !IsConflict(err) {
		return err
	}
	return nil
}

func (c *cosmosDocumentClient) DeleteDatabase(ctx context.Context, name string) error {
	db, err := c.client.NewDatabase(name)
	if err != nil {
		return err
	}
	_, err = db.Delete(ctx, nil)
	return err
}

func (c *cosmosDocumentClient) CreateContainer(ctx context.Context, spec CollectionSpec) error {
	db, err := c.client.NewDatabase(spec.Database)
	if err != nil {
		return err
	}
	props := azcosmos.ContainerProperties{
		ID: spec.Name,
		PartitionKeyDefinition: azcosmos.PartitionKeyDefinition{
			Paths: []string{spec.PartitionKey},
		},
	}
	throughput := azcosmos.NewManualThroughputProperties(spec.Throughput)
	_, err = db.CreateContainer(ctx, props, &azcosmos.CreateContainerOptions{ThroughputProperties: &throughput})
	return err
}

func (c *cosmosDocumentClient) DeleteContainer(ctx context.Context, database, container string) error {
	cc, err := c.client.NewContainer(database, container)
	if err != nil {
		return err
	}
	_, err = cc.Delete(ctx, nil)
	return err
}

func (c *cosmosDocumentClient) PartitionKeyPath(ctx context.Context, database, container string) (string, error) {
	cc, err := c.client.NewContainer(database, container)
	if err != nil {
		return "", err
	}
	resp, err := cc.Read(ctx, nil)
	if err != nil {
		return "", err
	}
	if resp.ContainerProperties == nil || len(resp.ContainerProperties.PartitionKeyDefinition.Paths) == 0 {
		return "", fmt.Errorf("container '%s' has no partition key definition", container)
	}
	return resp.ContainerProperties.PartitionKeyDefinition.Paths[0], nil
}

func (c *cosmosDocumentClient) CreateItem(ctx context.Context, database, container string, partitionKey any, item []byte) (float64, error) {
	cc, err := c.client.NewContainer(database, container)
	if err != nil {
		return 0, err
	}
	resp, err := cc.CreateItem(ctx, toPartitionKey(partitionKey), item, nil)
	if err != nil {
		return 0, err
	}
	return float64(resp.RequestCharge), nil
}

func (c *cosmosDocumentClient) QueryItems(ctx context.Context, database, container, query string) ([][]byte, float64, error) {
	cc, err := c.client.NewContainer(database, container)
	if err != nil {
		return nil, 0, err
	}
	pager := cc.NewQueryItemsPager(query, azcosmos.NewPartitionKey(), nil)
	var items [][]byte
	var charge float64
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return items, charge, err
		}
		charge += float64(page.RequestCharge)
		items = append(items, page.Items...)
	}
	return items, charge, nil
}

func (c *cosmosDocumentClient) DeleteItem(ctx context.Context, database, container string, partitionKey any, id string) (float64, error) {
	cc, err := c.client.NewContainer(database, container)
	if err != nil {
		return 0, err
	}
	resp, err := cc.DeleteItem(ctx, toPartitionKey(partitionKey), id, nil)
	if err != nil {
		return 0, err
	}
	return float64(resp.RequestCharge), nil
}

func (c *cosmosDocumentClient) Close() error {
	return nil
}

func toPartitionKey(v any) azcosmos.PartitionKey {
	switch pk := v.(type) {
	case string:
		return azcosmos.NewPartitionKeyString(pk)
	case float64:
		return azcosmos.NewPartitionKeyNumber(pk)
	case bool:
		return azcosmos.NewPartitionKeyBool(pk)
	case nil:
		return azcosmos.NullPartitionKey
	case UndefinedPartitionKey:
		return azcosmos.NewPartitionKey()
	default:
		return azcosmos.NewPartitionKeyString(fmt.Sprint(pk))
	}
}
