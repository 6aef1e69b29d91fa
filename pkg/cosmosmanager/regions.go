package cosmosmanager

import "strings"

// DefaultRegion is the ARM location used when a region cannot be resolved.
const DefaultRegion = "eastus"

// regionsByDisplayName maps the portal's human readable region names to ARM locations.
var regionsByDisplayName = map[string]string{
	"East US":          "eastus",
	"East US 2":        "eastus2",
	"Central US":       "centralus",
	"North Central US": "northcentralus",
	"South Central US": "southcentralus",
	"West Central US":  "westcentralus",
	"West US":          "westus",
	"West US 2":        "westus2",
	"Canada East":      "canadaeast",
	"Canada Central":   "canadacentral",
}

// ResolveRegion turns a display name ("West US 2") or an ARM location ("westus2") into an ARM
// location. The second return value is false when the input was not recognised and the
// DefaultRegion was returned instead.
func ResolveRegion(region string) (string, bool) {
	trimmed := strings.TrimSpace(region)
	for display, location := range regionsByDisplayName {
		if strings.EqualFold(display, trimmed) || strings.EqualFold(location, trimmed) {
			return location, true
		}
	}
	return DefaultRegion, false
}

// RegionDisplayNames lists the supported display names in menu order.
func RegionDisplayNames() []string {
	return []string{
		"East US", "East US 2", "Central US", "North Central US", "South Central US",
		"West Central US", "West US", "West US 2", "Canada East", "Canada Central",
	}
}
