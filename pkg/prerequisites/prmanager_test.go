package prerequisites_test

import (
	"context"
	"errors"
	"testing"

	"github.com/philbennett94/planet-express/pkg/prerequisites"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProviderClient is a mock implementation of the ProviderClient interface.
type MockProviderClient struct {
	mock.Mock
}

func (m *MockProviderClient) GetRegisteredProviders(ctx context.Context, namespaces []string) (map[string]struct{}, error) {
	args := m.Called(ctx, namespaces)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockProviderClient) RegisterProviders(ctx context.Context, namespaces []string) error {
	return m.Called(ctx, namespaces).Error(0)
}

func setupManagerTest(t *testing.T) (*prerequisites.Manager, *MockProviderClient) {
	mockClient := new(MockProviderClient)
	manager := prerequisites.NewManager(mockClient, zerolog.Nop())
	require.NotNil(t, manager)
	return manager, mockClient
}

var fullRequirements = prerequisites.Requirements{CreatesResourceGroups: true}

func TestManager_CheckAndRegister_AllRegistered(t *testing.T) {
	manager, mockClient := setupManagerTest(t)
	ctx := context.Background()

	registered := map[string]struct{}{
		"Microsoft.DocumentDB": {},
		"Microsoft.Resources":  {},
	}
	mockClient.On("GetRegisteredProviders", ctx, []string{"Microsoft.DocumentDB", "Microsoft.Resources"}).Return(registered, nil).Once()

	err := manager.CheckAndRegister(ctx, fullRequirements)

	require.NoError(t, err)
	mockClient.AssertNotCalled(t, "RegisterProviders", mock.Anything, mock.Anything)
	mockClient.AssertExpectations(t)
}

func TestManager_CheckAndRegister_SomeMissing(t *testing.T) {
	manager, mockClient := setupManagerTest(t)
	ctx := context.Background()

	registered := map[string]struct{}{"Microsoft.Resources": {}}
	mockClient.On("GetRegisteredProviders", ctx, mock.Anything).Return(registered, nil).Once()
	mockClient.On("RegisterProviders", ctx, []string{"Microsoft.DocumentDB"}).Return(nil).Once()

	err := manager.CheckAndRegister(ctx, fullRequirements)

	require.NoError(t, err)
	mockClient.AssertExpectations(t)
}

func TestManager_CheckAndRegister_GetFails(t *testing.T) {
	manager, mockClient := setupManagerTest(t)
	ctx := context.Background()
	expectedErr := errors.New("authorization failed")
	mockClient.On("GetRegisteredProviders", ctx, mock.Anything).Return(nil, expectedErr).Once()

	err := manager.CheckAndRegister(ctx, fullRequirements)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	mockClient.AssertNotCalled(t, "RegisterProviders", mock.Anything, mock.Anything)
}

func TestManager_CheckAndRegister_RegisterFails(t *testing.T) {
	manager, mockClient := setupManagerTest(t)
	ctx := context.Background()
	expectedErr := errors.New("subscription disabled")
	mockClient.On("GetRegisteredProviders", ctx, []string{"Microsoft.DocumentDB"}).Return(map[string]struct{}{}, nil).Once()
	mockClient.On("RegisterProviders", ctx, []string{"Microsoft.DocumentDB"}).Return(expectedErr).Once()

	err := manager.CheckAndRegister(ctx, prerequisites.Requirements{})

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	mockClient.AssertExpectations(t)
}
