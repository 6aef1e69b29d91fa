package cosmosmanager

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// AccountManagerOptions tunes account provisioning.
type AccountManagerOptions struct {
	// DefaultRegion is used when a create request leaves the region empty.
	DefaultRegion string
	// WaitForDeletion blocks DeleteAccount until the service reports completion.
	WaitForDeletion bool
	Retry           RetryPolicy
}

// CreateAccountRequest holds the user's answers for a new account. Every field is optional.
type CreateAccountRequest struct {
	Name          string
	Region        string
	ResourceGroup string
	// Model is the account kind: "MongoDB", or anything else for GlobalDocumentDB. When empty
	// it follows Experience.
	Model string
	// Experience is the default experience tag: DocumentDB, MongoDB, Graph or Table.
	Experience string
}

// KeyValue is one labelled line of connection information.
type KeyValue struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// AccountManager provisions and inspects Cosmos DB accounts and keeps the AccountRegistry current.
type AccountManager struct {
	client   AccountClient
	registry *AccountRegistry
	logger   zerolog.Logger
	opts     AccountManagerOptions
}

// NewAccountManager lists the subscription's accounts and returns a manager seeded with them.
func NewAccountManager(ctx context.Context, client AccountClient, logger zerolog.Logger, opts AccountManagerOptions) (*AccountManager, error) {
	if client == nil {
		return nil, errors.New("account client (AccountClient interface) cannot be nil")
	}
	if opts.DefaultRegion == "" {
		opts.DefaultRegion = DefaultRegion
	}
	if opts.Retry == (RetryPolicy{}) {
		opts.Retry = DefaultRetryPolicy
	}
	am := &AccountManager{
		client:   client,
		registry: NewAccountRegistry(),
		logger:   logger.With().Str("component", "AccountManager").Logger(),
		opts:     opts,
	}
	if err := am.Refresh(ctx); err != nil {
		return nil, err
	}
	return am, nil
}

// Refresh replaces the registry contents with a fresh listing.
func (am *AccountManager) Refresh(ctx context.Context) error {
	accounts, err := am.client.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list database accounts: %w", err)
	}
	am.registry.Reset(accounts...)
	am.logger.Debug().Int("accounts", len(accounts)).Msg("Account registry loaded.")
	return nil
}

// Registry exposes the account registry.
func (am *AccountManager) Registry() *AccountRegistry {
	return am.registry
}

// ListAccounts returns the registered accounts ordered by name.
func (am *AccountManager) ListAccounts() []AccountInfo {
	return am.registry.All()
}

// Lookup returns the registry entry for name.
func (am *AccountManager) Lookup(name string) (AccountInfo, error) {
	info, ok := am.registry.Get(name)
	if !ok {
		return AccountInfo{}, fmt.Errorf("%w: '%s'", ErrAccountNotFound, name)
	}
	return info, nil
}

// CreateAccount provisions a new account, filling in defaults for every empty field, then
// records it and applies its default experience tag.
func (am *AccountManager) CreateAccount(ctx context.Context, req CreateAccountRequest) (*AccountInfo, error) {
	spec, newGroup, err := am.resolveSpec(req)
	if err != nil {
		return nil, err
	}
	if _, ok := am.registry.Get(spec.Name); ok {
		return nil, fmt.Errorf("%w: '%s'", ErrAccountExists, spec.Name)
	}
	log := am.logger.With().Str("account", spec.Name).Str("resource_group", spec.ResourceGroup).Logger()

	if newGroup {
		log.Info().Str("location", spec.Location).Msg("Creating resource group for new account...")
		if err := am.client.EnsureResourceGroup(ctx, spec.ResourceGroup, spec.Location); err != nil {
			return nil, fmt.Errorf("failed to create resource group '%s': %w", spec.ResourceGroup, err)
		}
	}

	log.Info().Str("kind", spec.Kind).Str("location", spec.Location).Msg("Creating database account. This process can take several minutes...")
	info, err := am.client.CreateAccount(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to create database account '%s': %w", spec.Name, err)
	}
	if info.ResourceGroup == "" {
		info.ResourceGroup = spec.ResourceGroup
	}
	am.registry.Put(*info)
	log.Info().Msg("Database account created.")

	tagErr := withRetry(ctx, am.opts.Retry, isBusy, func() error {
		return am.client.SetDefaultExperience(ctx, info.ResourceGroup, info.Name, spec.Experience)
	})
	if tagErr != nil {
		log.Warn().Err(tagErr).Msg("Could not set the defaultExperience tag. Set the tag through the portal or retry.")
		return info, fmt.Errorf("account '%s' created but the default experience was not changed: %w", info.Name, tagErr)
	}
	am.registry.SetDefaultExperience(info.Name, spec.Experience)
	info.DefaultExperience = spec.Experience
	return info, nil
}

func (am *AccountManager) resolveSpec(req CreateAccountRequest) (AccountSpec, bool, error) {
	spec := AccountSpec{
		Name:          strings.TrimSpace(req.Name),
		ResourceGroup: strings.TrimSpace(req.ResourceGroup),
	}
	if spec.Name == "" {
		spec.Name = GenerateAccountName()
	} else if !IsValidAccountName(spec.Name) {
		return AccountSpec{}, false, fmt.Errorf("%w: account name '%s' must be 3-44 lowercase letters, digits or hyphens", ErrInvalidName, spec.Name)
	}

	region := strings.TrimSpace(req.Region)
	if region == "" {
		region = am.opts.DefaultRegion
	}
	location, ok := ResolveRegion(region)
	if !ok {
		am.logger.Warn().Str("region", region).Msg("Could not convert the region provided. Yielding default region East US.")
	}
	spec.Location = location

	kind, experience, err := resolveKind(req.Model, req.Experience)
	if err != nil {
		return AccountSpec{}, false, err
	}
	spec.Kind, spec.Experience = kind, experience

	newGroup := false
	if spec.ResourceGroup == "" {
		spec.ResourceGroup = GenerateResourceGroupName()
		newGroup = true
	}
	return spec, newGroup, nil
}

// resolveKind pairs an account model with a default experience. A missing model follows the
// experience, a missing experience follows the model, and the two must agree.
func resolveKind(model, experience string) (string, APIKind, error) {
	model = strings.TrimSpace(model)
	kind := ""
	switch {
	case model == "":
	case strings.EqualFold(model, AccountKindMongoDB):
		kind = AccountKindMongoDB
	default:
		kind = AccountKindGlobalDocumentDB
	}

	exp := APIKindDocument
	if s := strings.TrimSpace(experience); s != "" {
		parsed, err := ParseAPIKind(s)
		if err != nil {
			return "", "", err
		}
		exp = parsed
	} else if kind == AccountKindMongoDB {
		exp = APIKindMongo
	}

	if kind == "" {
		return exp.AccountKind(), exp, nil
	}
	if kind != exp.AccountKind() {
		return "", "", fmt.Errorf("%w: a %s account cannot serve the %s experience", ErrIncompatibleAccount, kind, exp)
	}
	return kind, exp, nil
}

// DeleteAccount deletes a registered account and forgets it once the service accepts the request.
func (am *AccountManager) DeleteAccount(ctx context.Context, name string) error {
	info, err := am.Lookup(name)
	if err != nil {
		return err
	}
	log := am.logger.With().Str("account", name).Logger()
	log.Info().Bool("wait", am.opts.WaitForDeletion).Msg("Deleting database account. This process can take several minutes...")
	if err := am.client.DeleteAccount(ctx, info.ResourceGroup, info.Name, am.opts.WaitForDeletion); err != nil {
		return fmt.Errorf("failed to delete database account '%s': %w", name, err)
	}
	am.registry.Remove(name)
	log.Info().Msg("Database account removed from registry.")
	return nil
}

// Account resolves the endpoint and keys of a registered account.
func (am *AccountManager) Account(ctx context.Context, name string) (*AccountConnection, error) {
	info, err := am.Lookup(name)
	if err != nil {
		return nil, err
	}
	details, err := am.client.GetAccount(ctx, info.ResourceGroup, info.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to get database account '%s': %w", name, err)
	}
	keys, err := am.client.ListKeys(ctx, info.ResourceGroup, info.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys for database account '%s': %w", name, err)
	}
	return &AccountConnection{Info: info, Endpoint: details.DocumentEndpoint, Keys: *keys}, nil
}

// ConnectionInfo returns the endpoint and the four keys of an account as ordered pairs.
func (am *AccountManager) ConnectionInfo(ctx context.Context, name string) ([]KeyValue, error) {
	conn, err := am.Account(ctx, name)
	if err != nil {
		return nil, err
	}
	return []KeyValue{
		{Key: "Endpoint", Value: conn.Endpoint},
		{Key: "Primary Key", Value: conn.Keys.Primary},
		{Key: "Secondary Key", Value: conn.Keys.Secondary},
		{Key: "Primary Read-only Key", Value: conn.Keys.PrimaryReadonly},
		{Key: "Secondary Read-only Key", Value: conn.Keys.SecondaryReadonly},
	}, nil
}
