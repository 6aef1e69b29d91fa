package cosmosmanager

import (
	"context"
	"net/url"
)

// AccountSpec describes an account to provision. All fields are required by the adapter; the
// AccountManager fills in defaults before calling it.
type AccountSpec struct {
	Name          string
	ResourceGroup string
	Location      string
	Kind          string
	Experience    APIKind
}

// AccountDetails is the subset of a live account needed to connect to it.
type AccountDetails struct {
	Name             string
	ID               string
	ResourceGroup    string
	Location         string
	Kind             string
	DocumentEndpoint string
	Tags             map[string]string
}

// AccountKeys holds the master keys of an account.
type AccountKeys struct {
	Primary           string
	Secondary         string
	PrimaryReadonly   string
	SecondaryReadonly string
}

// AccountConnection is everything a data-plane client needs to talk to an account.
type AccountConnection struct {
	Info     AccountInfo
	Endpoint string
	Keys     AccountKeys
}

// Host returns the hostname of the account's document endpoint.
func (c AccountConnection) Host() string {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// AccountClient abstracts the management-plane calls on Cosmos DB accounts.
type AccountClient interface {
	// ListAccounts returns every Cosmos DB account in the subscription.
	ListAccounts(ctx context.Context) ([]AccountInfo, error)
	// CreateAccount provisions an account and waits until it is ready.
	CreateAccount(ctx context.Context, spec AccountSpec) (*AccountInfo, error)
	// EnsureResourceGroup creates the resource group if it does not exist.
	EnsureResourceGroup(ctx context.Context, name, location string) error
	// DeleteAccount starts deletion, waiting for it to finish only when wait is true.
	DeleteAccount(ctx context.Context, resourceGroup, name string, wait bool) error
	GetAccount(ctx context.Context, resourceGroup, name string) (*AccountDetails, error)
	ListKeys(ctx context.Context, resourceGroup, name string) (*AccountKeys, error)
	SetDefaultExperience(ctx context.Context, resourceGroup, name string, kind APIKind) error
}
