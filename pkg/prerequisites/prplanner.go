package prerequisites

import (
	"slices"

	"github.com/samber/lo"
)

const (
	CosmosDBProvider  = "Microsoft.DocumentDB"
	ResourcesProvider = "Microsoft.Resources"
)

// Requirements describes what the toolbox is about to do with a subscription.
type Requirements struct {
	// CreatesResourceGroups is set when new accounts may be placed in new resource groups.
	CreatesResourceGroups bool
}

// PrerequisitePlanner determines the set of resource providers a subscription needs.
type PrerequisitePlanner struct{}

// NewPlanner creates a new PrerequisitePlanner.
func NewPlanner() *PrerequisitePlanner {
	return &PrerequisitePlanner{}
}

// PlanRequiredProviders returns the sorted resource provider namespaces needed for req.
func (p *PrerequisitePlanner) PlanRequiredProviders(req Requirements) []string {
	required := map[string]struct{}{CosmosDBProvider: {}}
	if req.CreatesResourceGroups {
		required[ResourcesProvider] = struct{}{}
	}
	providers := lo.Keys(required)
	slices.Sort(providers)
	return providers
}
