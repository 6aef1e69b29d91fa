package cosmosmanager

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/cosmos/armcosmos/v2"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// DatabaseAccountResourceType is the ARM resource type of Cosmos DB accounts.
const DatabaseAccountResourceType = "Microsoft.DocumentDB/databaseAccounts"

// NewServicePrincipalCredential builds the credential used for every management call from a
// service principal's tenant, client id and secret.
func NewServicePrincipalCredential(tenantID, clientID, clientSecret string) (azcore.TokenCredential, error) {
	cred, err := azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create service principal credential: %w", err)
	}
	return cred, nil
}

// azureAccountClient implements AccountClient with the ARM SDKs.
type azureAccountClient struct {
	accounts  *armcosmos.DatabaseAccountsClient
	resources *armresources.Client
	groups    *armresources.ResourceGroupsClient
}

// NewAzureAccountClient creates an AccountClient for the given subscription.
func NewAzureAccountClient(subscriptionID string, cred azcore.TokenCredential) (AccountClient, error) {
	accounts, err := armcosmos.NewDatabaseAccountsClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create database accounts client: %w", err)
	}
	resources, err := armresources.NewClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create resources client: %w", err)
	}
	groups, err := armresources.NewResourceGroupsClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource groups client: %w", err)
	}
	return &azureAccountClient{accounts: accounts, resources: resources, groups: groups}, nil
}

func (c *azureAccountClient) ListAccounts(ctx context.Context) ([]AccountInfo, error) {
	pager := c.resources.NewListPager(&armresources.ClientListOptions{
		Filter: to.Ptr(fmt.Sprintf("resourceType eq '%s'", DatabaseAccountResourceType)),
	})
	var accounts []AccountInfo
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, res := range page.Value {
			if res == nil || !strings.EqualFold(deref(res.Type), DatabaseAccountResourceType) {
				continue
			}
			accounts = append(accounts, fromGenericResource(res))
		}
	}
	return accounts, nil
}

func (c *azureAccountClient) CreateAccount(ctx context.Context, spec AccountSpec) (*AccountInfo, error) {
	props := &armcosmos.DatabaseAccountCreateUpdateProperties{
		DatabaseAccountOfferType: to.Ptr("Standard"),
		Locations: []*armcosmos.Location{
			{LocationName: to.Ptr(spec.Location), FailoverPriority: to.Ptr[int32](0)},
		},
		ConsistencyPolicy: &armcosmos.ConsistencyPolicy{
			DefaultConsistencyLevel: to.Ptr(armcosmos.DefaultConsistencyLevelSession),
		},
	}
	if capability := spec.Experience.Capability(); capability != "" {
		props.Capabilities = []*armcosmos.Capability{{Name: to.Ptr(capability)}}
	}
	params := armcosmos.DatabaseAccountCreateUpdateParameters{
		Location:   to.Ptr(spec.Location),
		Kind:       to.Ptr(armcosmos.DatabaseAccountKind(spec.Kind)),
		Properties: props,
	}
	poller, err := c.accounts.BeginCreateOrUpdate(ctx, spec.ResourceGroup, spec.Name, params, nil)
	if err != nil {
		return nil, err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, err
	}
	info := fromDatabaseAccount(&resp.DatabaseAccountGetResults)
	return &info, nil
}

func (c *azureAccountClient) EnsureResourceGroup(ctx context.Context, name, location string) error {
	_, err := c.groups.CreateOrUpdate(ctx, name, armresources.ResourceGroup{Location: to.Ptr(location)}, nil)
	return err
}

func (c *azureAccountClient) DeleteAccount(ctx context.Context, resourceGroup, name string, wait bool) error {
	poller, err := c.accounts.BeginDelete(ctx, resourceGroup, name, nil)
	if err != nil {
		return err
	}
	if !wait {
		return nil
	}
	_, err = poller.PollUntilDone(ctx, nil)
	return err
}

func (c *azureAccountClient) GetAccount(ctx context.Context, resourceGroup, name string) (*AccountDetails, error) {
	resp, err := c.accounts.Get(ctx, resourceGroup, name, nil)
	if err != nil {
		return nil, err
	}
	details := &AccountDetails{
		Name:          deref(resp.Name),
		ID:            deref(resp.ID),
		ResourceGroup: resourceGroup,
		Location:      deref(resp.Location),
		Tags:          derefTags(resp.Tags),
	}
	if resp.Kind != nil {
		details.Kind = string(*resp.Kind)
	}
	if resp.Properties != nil {
		details.DocumentEndpoint = deref(resp.Properties.DocumentEndpoint)
	}
	return details, nil
}

func (c *azureAccountClient) ListKeys(ctx context.Context, resourceGroup, name string) (*AccountKeys, error) {
	resp, err := c.accounts.ListKeys(ctx, resourceGroup, name, nil)
	if err != nil {
		return nil, err
	}
	return &AccountKeys{
		Primary:           deref(resp.PrimaryMasterKey),
		Secondary:         deref(resp.SecondaryMasterKey),
		PrimaryReadonly:   deref(resp.PrimaryReadonlyMasterKey),
		SecondaryReadonly: deref(resp.SecondaryReadonlyMasterKey),
	}, nil
}

// SetDefaultExperience merges the defaultExperience tag into the account's existing tags.
func (c *azureAccountClient) SetDefaultExperience(ctx context.Context, resourceGroup, name string, kind APIKind) error {
	current, err := c.accounts.Get(ctx, resourceGroup, name, nil)
	if err != nil {
		return err
	}
	tags := make(map[string]*string, len(current.Tags)+1)
	for k, v := range current.Tags {
		tags[k] = v
	}
	tags[DefaultExperienceTag] = to.Ptr(kind.String())
	poller, err := c.accounts.BeginUpdate(ctx, resourceGroup, name, armcosmos.DatabaseAccountUpdateParameters{Tags: tags}, nil)
	if err != nil {
		return err
	}
	_, err = poller.PollUntilDone(ctx, nil)
	return err
}

// --- Conversion Functions ---

func fromGenericResource(res *armresources.GenericResourceExpanded) AccountInfo {
	id := deref(res.ID)
	tags := derefTags(res.Tags)
	return AccountInfo{
		Name:              deref(res.Name),
		ID:                id,
		ResourceGroup:     resourceGroupFromID(id),
		Type:              deref(res.Type),
		Location:          deref(res.Location),
		DefaultExperience: experienceFromTags(tags, deref(res.Kind)),
	}
}

func fromDatabaseAccount(acct *armcosmos.DatabaseAccountGetResults) AccountInfo {
	id := deref(acct.ID)
	kind := ""
	if acct.Kind != nil {
		kind = string(*acct.Kind)
	}
	return AccountInfo{
		Name:              deref(acct.Name),
		ID:                id,
		ResourceGroup:     resourceGroupFromID(id),
		Type:              deref(acct.Type),
		Location:          deref(acct.Location),
		DefaultExperience: experienceFromTags(derefTags(acct.Tags), kind),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTags(tags map[string]*string) map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		out[k] = deref(v)
	}
	return out
}
