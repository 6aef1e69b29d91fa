package cosmosmanager_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/philbennett94/planet-express/pkg/cosmosmanager"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fastRetry keeps retry tests quick.
var fastRetry = cosmosmanager.RetryPolicy{
	InitialInterval: time.Millisecond,
	MaxInterval:     2 * time.Millisecond,
	MaxElapsedTime:  time.Second,
	MaxRetries:      3,
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func writeDocument(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// responseError builds the error an Azure SDK call returns for an HTTP status.
func responseError(code int) error {
	req, _ := http.NewRequest(http.MethodPut, "https://planet.documents.azure.com/dbs", nil)
	return runtime.NewResponseError(&http.Response{
		StatusCode: code,
		Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(`{"code":"Error","message":"failed"}`)),
		Request:    req,
	})
}

// --- Mocks ---

type MockAccountClient struct{ mock.Mock }

func (m *MockAccountClient) ListAccounts(ctx context.Context) ([]cosmosmanager.AccountInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cosmosmanager.AccountInfo), args.Error(1)
}
func (m *MockAccountClient) CreateAccount(ctx context.Context, spec cosmosmanager.AccountSpec) (*cosmosmanager.AccountInfo, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cosmosmanager.AccountInfo), args.Error(1)
}
func (m *MockAccountClient) EnsureResourceGroup(ctx context.Context, name, location string) error {
	return m.Called(ctx, name, location).Error(0)
}
func (m *MockAccountClient) DeleteAccount(ctx context.Context, resourceGroup, name string, wait bool) error {
	return m.Called(ctx, resourceGroup, name, wait).Error(0)
}
func (m *MockAccountClient) GetAccount(ctx context.Context, resourceGroup, name string) (*cosmosmanager.AccountDetails, error) {
	args := m.Called(ctx, resourceGroup, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cosmosmanager.AccountDetails), args.Error(1)
}
func (m *MockAccountClient) ListKeys(ctx context.Context, resourceGroup, name string) (*cosmosmanager.AccountKeys, error) {
	args := m.Called(ctx, resourceGroup, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cosmosmanager.AccountKeys), args.Error(1)
}
func (m *MockAccountClient) SetDefaultExperience(ctx context.Context, resourceGroup, name string, kind cosmosmanager.APIKind) error {
	return m.Called(ctx, resourceGroup, name, kind).Error(0)
}

type MockDocumentStoreClient struct{ mock.Mock }

func (m *MockDocumentStoreClient) ListDatabases(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockDocumentStoreClient) ListContainers(ctx context.Context, database string) ([]string, error) {
	args := m.Called(ctx, database)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockDocumentStoreClient) CreateDatabase(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *MockDocumentStoreClient) DeleteDatabase(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *MockDocumentStoreClient) CreateContainer(ctx context.Context, spec cosmosmanager.CollectionSpec) error {
	return m.Called(ctx, spec).Error(0)
}
func (m *MockDocumentStoreClient) DeleteContainer(ctx context.Context, database, container string) error {
	return m.Called(ctx, database, container).Error(0)
}
func (m *MockDocumentStoreClient) PartitionKeyPath(ctx context.Context, database, container string) (string, error) {
	args := m.Called(ctx, database, container)
	return args.String(0), args.Error(1)
}
func (m *MockDocumentStoreClient) CreateItem(ctx context.Context, database, container string, partitionKey any, item []byte) (float64, error) {
	args := m.Called(ctx, database, container, partitionKey, item)
	return args.Get(0).(float64), args.Error(1)
}
func (m *MockDocumentStoreClient) QueryItems(ctx context.Context, database, container, query string) ([][]byte, float64, error) {
	args := m.Called(ctx, database, container, query)
	if args.Get(0) == nil {
		return nil, args.Get(1).(float64), args.Error(2)
	}
	return args.Get(0).([][]byte), args.Get(1).(float64), args.Error(2)
}
func (m *MockDocumentStoreClient) DeleteItem(ctx context.Context, database, container string, partitionKey any, id string) (float64, error) {
	args := m.Called(ctx, database, container, partitionKey, id)
	return args.Get(0).(float64), args.Error(1)
}
func (m *MockDocumentStoreClient) Close() error {
	return m.Called().Error(0)
}

type MockMongoClient struct{ mock.Mock }

func (m *MockMongoClient) ListDatabaseNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockMongoClient) ListCollectionNames(ctx context.Context, database string) ([]string, error) {
	args := m.Called(ctx, database)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockMongoClient) CreateDatabase(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *MockMongoClient) DropDatabase(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *MockMongoClient) CreateCollection(ctx context.Context, spec cosmosmanager.CollectionSpec) error {
	return m.Called(ctx, spec).Error(0)
}
func (m *MockMongoClient) DropCollection(ctx context.Context, database, name string) error {
	return m.Called(ctx, database, name).Error(0)
}
func (m *MockMongoClient) InsertMany(ctx context.Context, database, collection string, docs []cosmosmanager.Document) (int, error) {
	args := m.Called(ctx, database, collection, docs)
	return args.Int(0), args.Error(1)
}
func (m *MockMongoClient) Disconnect(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockTableStoreClient struct{ mock.Mock }

func (m *MockTableStoreClient) ListTables(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockTableStoreClient) CreateTable(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *MockTableStoreClient) DeleteTable(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *MockTableStoreClient) AddEntities(ctx context.Context, table string, entities []cosmosmanager.TestEntity) error {
	return m.Called(ctx, table, entities).Error(0)
}
func (m *MockTableStoreClient) Close() error {
	return m.Called().Error(0)
}

type MockDatabaseManager struct{ mock.Mock }

func (m *MockDatabaseManager) Kind() cosmosmanager.APIKind {
	return m.Called().Get(0).(cosmosmanager.APIKind)
}
func (m *MockDatabaseManager) CreateDatabase(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *MockDatabaseManager) DeleteDatabase(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *MockDatabaseManager) ListDatabases() []string {
	return m.Called().Get(0).([]string)
}
func (m *MockDatabaseManager) CreateCollection(ctx context.Context, spec cosmosmanager.CollectionSpec) error {
	return m.Called(ctx, spec).Error(0)
}
func (m *MockDatabaseManager) DeleteCollection(ctx context.Context, database, name string) error {
	return m.Called(ctx, database, name).Error(0)
}
func (m *MockDatabaseManager) ListCollections(database string) ([]string, error) {
	args := m.Called(database)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockDatabaseManager) InsertDocuments(ctx context.Context, req cosmosmanager.InsertRequest) (*cosmosmanager.InsertReport, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cosmosmanager.InsertReport), args.Error(1)
}
func (m *MockDatabaseManager) Registry() *cosmosmanager.DatabaseRegistry {
	return m.Called().Get(0).(*cosmosmanager.DatabaseRegistry)
}
func (m *MockDatabaseManager) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockAccountConnector struct{ mock.Mock }

func (m *MockAccountConnector) Account(ctx context.Context, name string) (*cosmosmanager.AccountConnection, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cosmosmanager.AccountConnection), args.Error(1)
}

type MockManagerFactory struct{ mock.Mock }

func (m *MockManagerFactory) NewManager(ctx context.Context, conn *cosmosmanager.AccountConnection) (cosmosmanager.DatabaseManager, error) {
	args := m.Called(ctx, conn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cosmosmanager.DatabaseManager), args.Error(1)
}
