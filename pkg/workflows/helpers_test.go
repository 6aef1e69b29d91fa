package workflows_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/philbennett94/planet-express/pkg/console"
	"github.com/philbennett94/planet-express/pkg/cosmosmanager"
	"github.com/philbennett94/planet-express/pkg/workflows"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	out       *bytes.Buffer
	accounts  *MockAccountService
	managers  *MockManagerProvider
	accountWF *workflows.AccountWorkflows
	resources *workflows.ResourceWorkflows
	shell     *workflows.Shell
}

// newFixture wires workflows over scripted input with confirmation disabled.
func newFixture(t *testing.T, input string) *fixture {
	t.Helper()
	return newTimedFixture(t, strings.NewReader(input), 0)
}

// newTimedFixture is newFixture over any reader, with a per-call timeout.
func newTimedFixture(t *testing.T, input io.Reader, timeout time.Duration) *fixture {
	t.Helper()
	f := &fixture{
		out:      &bytes.Buffer{},
		accounts: new(MockAccountService),
		managers: new(MockManagerProvider),
	}
	palette := console.NewPalette(true)
	prompter := console.NewPrompter(input, f.out, false, palette)
	formatter := console.NewFormatter(console.OutputTable, f.out)

	var err error
	f.accountWF, err = workflows.NewAccountWorkflows(f.accounts, f.managers, prompter, formatter, zerolog.Nop())
	require.NoError(t, err)
	f.resources, err = workflows.NewResourceWorkflows(f.managers, prompter, formatter, zerolog.Nop(), workflows.ResourceWorkflowsOptions{})
	require.NoError(t, err)
	f.shell, err = workflows.NewShell(prompter, f.accountWF, f.resources, zerolog.Nop(), timeout)
	require.NoError(t, err)
	return f
}

// pausingReader hands out one line per Read, sleeping before each.
type pausingReader struct {
	lines []string
	pause time.Duration
}

func (r *pausingReader) Read(p []byte) (int, error) {
	if len(r.lines) == 0 {
		return 0, io.EOF
	}
	time.Sleep(r.pause)
	n := copy(p, r.lines[0])
	r.lines[0] = r.lines[0][n:]
	if r.lines[0] == "" {
		r.lines = r.lines[1:]
	}
	return n, nil
}

func responseError(code int) error {
	req, _ := http.NewRequest(http.MethodPost, "https://planet.documents.azure.com/dbs", nil)
	return runtime.NewResponseError(&http.Response{
		StatusCode: code,
		Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(`{"code":"Error","message":"failed"}`)),
		Request:    req,
	})
}

// --- Mocks ---

type MockAccountService struct{ mock.Mock }

func (m *MockAccountService) CreateAccount(ctx context.Context, req cosmosmanager.CreateAccountRequest) (*cosmosmanager.AccountInfo, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cosmosmanager.AccountInfo), args.Error(1)
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *MockAccountService) ListAccounts() []cosmosmanager.AccountInfo {
	return m.Called().Get(0).([]cosmosmanager.AccountInfo)
}
func (m *MockAccountService) ConnectionInfo(ctx context.Context, name string) ([]cosmosmanager.KeyValue, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cosmosmanager.KeyValue), args.Error(1)
}

type MockManagerProvider struct{ mock.Mock }

func (m *MockManagerProvider) ManagerFor(ctx context.Context, accountName string) (cosmosmanager.DatabaseManager, error) {
	args := m.Called(ctx, accountName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cosmosmanager.DatabaseManager), args.Error(1)
}
func (m *MockManagerProvider) Forget(ctx context.Context, accountName string) error {
	return m.Called(ctx, accountName).Error(0)
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

// MockQueryManager is a DatabaseManager that also answers queries.
type MockQueryManager struct{ MockDatabaseManager }

func (m *MockQueryManager) Query(ctx context.Context, database, collection, query string) (*cosmosmanager.QueryReport, error) {
	args := m.Called(ctx, database, collection, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cosmosmanager.QueryReport), args.Error(1)
}
func (m *MockQueryManager) DeleteByQuery(ctx context.Context, database, collection, query, partitionKeyPath string) (int, error) {
	args := m.Called(ctx, database, collection, query, partitionKeyPath)
	return args.Int(0), args.Error(1)
}
