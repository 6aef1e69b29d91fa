package cosmosmanager_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/philbennett94/planet-express/pkg/cosmosmanager"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupToolboxTest(t *testing.T) (*cosmosmanager.Toolbox, *MockAccountConnector, *MockManagerFactory) {
	connector := new(MockAccountConnector)
	factory := new(MockManagerFactory)
	tb, err := cosmosmanager.NewToolbox(connector, factory, zerolog.Nop())
	require.NoError(t, err)
	return tb, connector, factory
}

func TestNewToolbox(t *testing.T) {
	_, err := cosmosmanager.NewToolbox(nil, new(MockManagerFactory), zerolog.Nop())
	assert.Error(t, err)
	_, err = cosmosmanager.NewToolbox(new(MockAccountConnector), nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestToolbox_ManagerFor(t *testing.T) {
	t.Run("Builds once and caches", func(t *testing.T) {
		ctx := testContext(t)
		tb, connector, factory := setupToolboxTest(t)
		conn := &cosmosmanager.AccountConnection{Info: cosmosmanager.AccountInfo{Name: "planet-docs", DefaultExperience: cosmosmanager.APIKindDocument}}
		dbm := new(MockDatabaseManager)

		connector.On("Account", ctx, "planet-docs").Return(conn, nil).Once()
		factory.On("NewManager", ctx, conn).Return(dbm, nil).Once()

		first, err := tb.ManagerFor(ctx, "planet-docs")
		require.NoError(t, err)
		second, err := tb.ManagerFor(ctx, "planet-docs")
		require.NoError(t, err)

		assert.Same(t, first, second)
		connector.AssertExpectations(t)
		factory.AssertExpectations(t)
	})

	t.Run("Unknown account", func(t *testing.T) {
		ctx := testContext(t)
		tb, connector, factory := setupToolboxTest(t)
		connector.On("Account", ctx, "nobody").Return(nil, fmt.Errorf("%w: 'nobody'", cosmosmanager.ErrAccountNotFound)).Once()

		_, err := tb.ManagerFor(ctx, "nobody")

		assert.ErrorIs(t, err, cosmosmanager.ErrAccountNotFound)
		factory.AssertNotCalled(t, "NewManager", mock.Anything, mock.Anything)
	})

	t.Run("Factory failure is not cached", func(t *testing.T) {
		ctx := testContext(t)
		tb, connector, factory := setupToolboxTest(t)
		conn := &cosmosmanager.AccountConnection{Info: cosmosmanager.AccountInfo{Name: "planet-mongo"}}
		connector.On("Account", ctx, "planet-mongo").Return(conn, nil).Twice()
		factory.On("NewManager", ctx, conn).Return(nil, errors.New("dial failed")).Once()
		factory.On("NewManager", ctx, conn).Return(new(MockDatabaseManager), nil).Once()

		_, err := tb.ManagerFor(ctx, "planet-mongo")
		assert.ErrorContains(t, err, "failed to open account 'planet-mongo'")
		_, err = tb.ManagerFor(ctx, "planet-mongo")
		assert.NoError(t, err)
		factory.AssertExpectations(t)
	})
}

func TestToolbox_ManagerFor_AccountsOpenIndependently(t *testing.T) {
	ctx := testContext(t)
	tb, connector, factory := setupToolboxTest(t)
	slowConn := &cosmosmanager.AccountConnection{Info: cosmosmanager.AccountInfo{Name: "planet-slow"}}
	fastConn := &cosmosmanager.AccountConnection{Info: cosmosmanager.AccountInfo{Name: "planet-fast"}}
	connector.On("Account", ctx, "planet-slow").Return(slowConn, nil).Once()
	connector.On("Account", ctx, "planet-fast").Return(fastConn, nil).Once()

	entered := make(chan struct{})
	release := make(chan struct{})
	released := false
	factory.On("NewManager", ctx, slowConn).Run(func(mock.Arguments) {
		close(entered)
		select {
		case <-release:
			released = true
		case <-time.After(2 * time.Second):
		}
	}).Return(new(MockDatabaseManager), nil).Once()
	factory.On("NewManager", ctx, fastConn).Run(func(mock.Arguments) {
		close(release)
	}).Return(new(MockDatabaseManager), nil).Once()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := tb.ManagerFor(ctx, "planet-slow")
		assert.NoError(t, err)
	}()
	<-entered

	_, err := tb.ManagerFor(ctx, "planet-fast")
	require.NoError(t, err)
	wg.Wait()

	assert.True(t, released, "opening one account must not wait for another")
	factory.AssertExpectations(t)
}

func TestToolbox_ForgetAndClose(t *testing.T) {
	ctx := testContext(t)
	tb, connector, factory := setupToolboxTest(t)

	first := new(MockDatabaseManager)
	second := new(MockDatabaseManager)
	connA := &cosmosmanager.AccountConnection{Info: cosmosmanager.AccountInfo{Name: "a"}}
	connB := &cosmosmanager.AccountConnection{Info: cosmosmanager.AccountInfo{Name: "b"}}
	connector.On("Account", ctx, "a").Return(connA, nil).Once()
	connector.On("Account", ctx, "b").Return(connB, nil).Once()
	factory.On("NewManager", ctx, connA).Return(first, nil).Once()
	factory.On("NewManager", ctx, connB).Return(second, nil).Once()
	first.On("Close", ctx).Return(nil).Once()
	second.On("Close", ctx).Return(errors.New("disconnect failed")).Once()

	_, err := tb.ManagerFor(ctx, "a")
	require.NoError(t, err)
	_, err = tb.ManagerFor(ctx, "b")
	require.NoError(t, err)

	require.NoError(t, tb.Forget(ctx, "a"))
	require.NoError(t, tb.Forget(ctx, "never-opened"))

	err = tb.Close(ctx)
	assert.ErrorContains(t, err, "account 'b'")
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}
