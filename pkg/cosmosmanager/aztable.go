package cosmosmanager

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
)

// TableStoreClient abstracts the calls made against a Cosmos DB Table account.
type TableStoreClient interface {
	ListTables(ctx context.Context) ([]string, error)
	// CreateTable must treat an existing table as success.
	CreateTable(ctx context.Context, name string) error
	// DeleteTable must treat a missing table as success.
	DeleteTable(ctx context.Context, name string) error
	// AddEntities submits entities sharing one partition key as a single transaction.
	AddEntities(ctx context.Context, table string, entities []TestEntity) error
	Close() error
}

// TableConnectionString builds the connection string of a Cosmos DB Table account.
func TableConnectionString(accountName, key string) string {
	return fmt.Sprintf("DefaultEndpointsProtocol=https;AccountName=%s;AccountKey=%s;TableEndpoint=https://%s.table.cosmos.azure.com:443/;",
		accountName, key, accountName)
}

// azureTableClient implements TableStoreClient with the aztables SDK.
type azureTableClient struct {
	service *aztables.ServiceClient
}

// NewAzureTableClient opens a table service client from a connection string.
func NewAzureTableClient(connectionString string) (TableStoreClient, error) {
	service, err := aztables.NewServiceClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create table service client: %w", err)
	}
	return &azureTableClient{service: service}, nil
}

func (c *azureTableClient) ListTables(ctx context.Context) ([]string, error) {
	pager := c.service.NewListTablesPager(nil)
	var names []string
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range page.Tables {
			if t != nil && t.Name != nil {
				names = append(names, *t.Name)
			}
		}
	}
	return names, nil
}

func (c *azureTableClient) CreateTable(ctx context.Context, name string) error {
	_, err := c.service.CreateTable(ctx, name, nil)
	if err != nil && !IsConflict(err) {
		return err
	}
	return nil
}

func (c *azureTableClient) DeleteTable(ctx context.Context, name string) error {
	_, err := c.service.DeleteTable(ctx, name, nil)
	if err != nil && StatusCode(err) != http.StatusNotFound {
		return err
	}
	return nil
}

func (c *azureTableClient) AddEntities(ctx context.Context, table string, entities []TestEntity) error {
	actions := make([]aztables.TransactionAction, 0, len(entities))
	for _, e := range entities {
		payload, err := json.Marshal(e.Properties())
		if err != nil {
			return fmt.Errorf("failed to encode entity '%s': %w", e.RowKey, err)
		}
		actions = append(actions, aztables.TransactionAction{
			ActionType: aztables.TransactionTypeAdd,
			Entity:     payload,
		})
	}
	_, err := c.service.NewClient(table).SubmitTransaction(ctx, actions, nil)
	return err
}

func (c *azureTableClient) Close() error {
	return nil
}
