package prerequisites

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Manager orchestrates the process of checking and registering required resource providers.
type Manager struct {
	client  ProviderClient
	planner *PrerequisitePlanner
	logger  zerolog.Logger
}

// NewManager creates a new prerequisite manager.
func NewManager(client ProviderClient, logger zerolog.Logger) *Manager {
	return &Manager{
		client:  client,
		planner: NewPlanner(),
		logger:  logger.With().Str("component", "PrerequisiteManager").Logger(),
	}
}

// CheckAndRegister finds required providers that are not registered and registers them.
// This function is idempotent.
func (m *Manager) CheckAndRegister(ctx context.Context, req Requirements) error {
	required := m.planner.PlanRequiredProviders(req)
	m.logger.Debug().Strs("required_providers", required).Msg("Verifying resource provider prerequisites...")

	registered, err := m.client.GetRegisteredProviders(ctx, required)
	if err != nil {
		return fmt.Errorf("failed to get registered providers: %w", err)
	}

	var missing []string
	for _, ns := range required {
		if _, ok := registered[ns]; !ok {
			missing = append(missing, ns)
		}
	}
	if len(missing) == 0 {
		m.logger.Debug().Msg("All required resource providers are registered.")
		return nil
	}

	m.logger.Warn().Strs("providers_to_register", missing).Msg("Found required resource providers that are not registered. Attempting to register now...")
	if err := m.client.RegisterProviders(ctx, missing); err != nil {
		return fmt.Errorf("failed to register required providers: %w", err)
	}
	m.logger.Info().Strs("registered_providers", missing).Msg("Registration requested for all missing resource providers.")
	return nil
}
