package cmd

import (
	"context"
	"fmt"

	"github.com/philbennett94/planet-express/pkg/config"
	"github.com/philbennett94/planet-express/pkg/cosmosmanager"
	"github.com/philbennett94/planet-express/pkg/prerequisites"
)

// environment holds the account manager and toolbox built from a set of credentials.
type environment struct {
	accounts *cosmosmanager.AccountManager
	toolbox  *cosmosmanager.Toolbox
}

// openEnvironment connects to the subscription and loads its account registry. When
// checkProviders is set the resource providers are verified first; a failed check is
// only logged.
func openEnvironment(ctx context.Context, creds *config.Credentials, checkProviders bool) (*environment, error) {
	cred, err := cosmosmanager.NewServicePrincipalCredential(creds.TenantID, creds.ClientID, creds.ClientSecret)
	if err != nil {
		return nil, err
	}

	if checkProviders {
		providers, err := prerequisites.NewAzureProviderClient(creds.SubscriptionID, cred, logger)
		if err == nil {
			err = prerequisites.NewManager(providers, logger).CheckAndRegister(ctx, prerequisites.Requirements{CreatesResourceGroups: true})
		}
		if err != nil {
			logger.Warn().Err(err).Msg("Could not verify resource provider registration. Continuing.")
		}
	}

	client, err := cosmosmanager.NewAzureAccountClient(creds.SubscriptionID, cred)
	if err != nil {
		return nil, err
	}
	accounts, err := cosmosmanager.NewAccountManager(ctx, client, logger, cosmosmanager.AccountManagerOptions{
		DefaultRegion:   cfg.DefaultRegion,
		WaitForDeletion: cfg.WaitForDeletion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load database accounts: %w", err)
	}

	factory := cosmosmanager.AzureManagerFactory{
		Logger: logger,
		Documents: cosmosmanager.DocumentManagerOptions{
			DefaultThroughput: cfg.DefaultThroughput,
			InsertParallelism: cfg.InsertParallelism,
		},
		Tables: cosmosmanager.TableManagerOptions{
			DefaultEntityCount: cfg.DefaultEntityCount,
		},
	}
	toolbox, err := cosmosmanager.NewToolbox(accounts, factory, logger)
	if err != nil {
		return nil, err
	}
	return &environment{accounts: accounts, toolbox: toolbox}, nil
}

// Close releases every data-plane client opened through the toolbox.
func (e *environment) Close(ctx context.Context) error {
	return e.toolbox.Close(ctx)
}
