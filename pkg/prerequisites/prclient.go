package prerequisites

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/rs/zerolog"
)

const registeredState = "Registered"

// ProviderClient defines the contract for a client that can check for and
// register Azure resource providers on a subscription.
type ProviderClient interface {
	GetRegisteredProviders(ctx context.Context, namespaces []string) (map[string]struct{}, error)
	RegisterProviders(ctx context.Context, namespaces []string) error
}

// azureProviderClient implements the ProviderClient interface with the ARM providers API.
type azureProviderClient struct {
	client *armresources.ProvidersClient
	logger zerolog.Logger
}

// NewAzureProviderClient creates a new client for the subscription's resource providers.
func NewAzureProviderClient(subscriptionID string, cred azcore.TokenCredential, logger zerolog.Logger) (ProviderClient, error) {
	client, err := armresources.NewProvidersClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create providers client: %w", err)
	}
	return &azureProviderClient{client: client, logger: logger}, nil
}

// GetRegisteredProviders returns the subset of namespaces that are registered.
func (c *azureProviderClient) GetRegisteredProviders(ctx context.Context, namespaces []string) (map[string]struct{}, error) {
	registered := make(map[string]struct{})
	for _, ns := range namespaces {
		resp, err := c.client.Get(ctx, ns, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to get provider '%s': %w", ns, err)
		}
		if resp.RegistrationState != nil && strings.EqualFold(*resp.RegistrationState, registeredState) {
			registered[ns] = struct{}{}
		}
	}
	return registered, nil
}

// RegisterProviders requests registration of every namespace. Registration completes
// asynchronously on the service side.
func (c *azureProviderClient) RegisterProviders(ctx context.Context, namespaces []string) error {
	var allErrors []error
	for _, ns := range namespaces {
		resp, err := c.client.Register(ctx, ns, nil)
		if err != nil {
			allErrors = append(allErrors, fmt.Errorf("failed to register provider '%s': %w", ns, err))
			continue
		}
		state := ""
		if resp.RegistrationState != nil {
			state = *resp.RegistrationState
		}
		c.logger.Info().Str("provider", ns).Str("state", state).Msg("Requested provider registration.")
	}
	return errors.Join(allErrors...)
}
