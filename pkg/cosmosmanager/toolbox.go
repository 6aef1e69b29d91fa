package cosmosmanager

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// AccountConnector resolves a registered account name to its connection details.
// *AccountManager satisfies it.
type AccountConnector interface {
	Account(ctx context.Context, name string) (*AccountConnection, error)
}

// ManagerFactory builds the DatabaseManager matching an account's default experience.
type ManagerFactory interface {
	NewManager(ctx context.Context, conn *AccountConnection) (DatabaseManager, error)
}

// Toolbox hands out one DatabaseManager per account, creating each on first use.
type Toolbox struct {
	accounts AccountConnector
	factory  ManagerFactory
	logger   zerolog.Logger

	mu       sync.Mutex
	managers map[string]DatabaseManager
	opening  singleflight.Group
}

// NewToolbox creates a toolbox over the given account connector and manager factory.
func NewToolbox(accounts AccountConnector, factory ManagerFactory, logger zerolog.Logger) (*Toolbox, error) {
	if accounts == nil {
		return nil, errors.New("account connector cannot be nil")
	}
	if factory == nil {
		return nil, errors.New("manager factory cannot be nil")
	}
	return &Toolbox{
		accounts: accounts,
		factory:  factory,
		logger:   logger.With().Str("component", "Toolbox").Logger(),
		managers: make(map[string]DatabaseManager),
	}, nil
}

// ManagerFor returns the cached manager for an account or builds one. Concurrent callers for
// the same account share one build; other accounts are not held up.
func (tb *Toolbox) ManagerFor(ctx context.Context, accountName string) (DatabaseManager, error) {
	if m, ok := tb.cached(accountName); ok {
		return m, nil
	}
	v, err, _ := tb.opening.Do(accountName, func() (any, error) {
		if m, ok := tb.cached(accountName); ok {
			return m, nil
		}
		conn, err := tb.accounts.Account(ctx, accountName)
		if err != nil {
			return nil, err
		}
		tb.logger.Info().Str("account", accountName).Str("experience", conn.Info.DefaultExperience.String()).Msg("Opening account.")
		m, err := tb.factory.NewManager(ctx, conn)
		if err != nil {
			return nil, fmt.Errorf("failed to open account '%s': %w", accountName, err)
		}
		tb.mu.Lock()
		tb.managers[accountName] = m
		tb.mu.Unlock()
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(DatabaseManager), nil
}

func (tb *Toolbox) cached(accountName string) (DatabaseManager, bool) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	m, ok := tb.managers[accountName]
	return m, ok
}

// Forget closes and evicts the cached manager of an account, if any.
func (tb *Toolbox) Forget(ctx context.Context, accountName string) error {
	tb.mu.Lock()
	m, ok := tb.managers[accountName]
	delete(tb.managers, accountName)
	tb.mu.Unlock()
	if !ok {
		return nil
	}
	if err := m.Close(ctx); err != nil {
		return fmt.Errorf("failed to close manager for account '%s': %w", accountName, err)
	}
	return nil
}

// Close closes every cached manager.
func (tb *Toolbox) Close(ctx context.Context) error {
	tb.mu.Lock()
	managers := tb.managers
	tb.managers = make(map[string]DatabaseManager)
	tb.mu.Unlock()

	var allErrors []error
	for name, m := range managers {
		if err := m.Close(ctx); err != nil {
			allErrors = append(allErrors, fmt.Errorf("failed to close manager for account '%s': %w", name, err))
		}
	}
	return errors.Join(allErrors...)
}

// AzureManagerFactory opens real data-plane clients for each API kind.
type AzureManagerFactory struct {
	Logger    zerolog.Logger
	Documents DocumentManagerOptions
	Tables    TableManagerOptions
}

func (f AzureManagerFactory) NewManager(ctx context.Context, conn *AccountConnection) (DatabaseManager, error) {
	switch conn.Info.DefaultExperience {
	case APIKindMongo:
		client, err := NewDriverMongoClient(ctx, MongoConnectionString(conn.Info.Name, conn.Keys.Primary, conn.Host()))
		if err != nil {
			return nil, err
		}
		m, err := NewMongoManager(ctx, client, f.Logger, f.Documents)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return m, nil
	case APIKindTable:
		client, err := NewAzureTableClient(TableConnectionString(conn.Info.Name, conn.Keys.Primary))
		if err != nil {
			return nil, err
		}
		m, err := NewTableManager(ctx, client, f.Logger, f.Tables)
		if err != nil {
			return nil, err
		}
		return m, nil
	case APIKindGraph:
		client, err := NewCosmosDocumentClient(conn.Endpoint, conn.Keys.Primary)
		if err != nil {
			return nil, err
		}
		m, err := NewGraphManager(ctx, client, f.Logger, f.Documents)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		client, err := NewCosmosDocumentClient(conn.Endpoint, conn.Keys.Primary)
		if err != nil {
			return nil, err
		}
		m, err := NewDocumentManager(ctx, client, f.Logger, f.Documents)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}
