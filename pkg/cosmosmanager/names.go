package cosmosmanager

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	// accountNameRegex matches names accepted for Cosmos DB accounts: lowercase letters, digits
	// and hyphens, never starting or ending with a hyphen.
	accountNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*[a-z0-9]$`)
)

const (
	minAccountNameLength = 3
	maxAccountNameLength = 44

	// Prefixes for generated names.
	AccountNamePrefix       = "docdb"
	ResourceGroupNamePrefix = "docdbtoolbox"
	generatedSuffixLength   = 10
)

// GenerateResourceName creates a random, lowercase name made of prefix followed by n
// hex characters taken from a UUID.
func GenerateResourceName(prefix string, n int) string {
	uniqueID := strings.ReplaceAll(uuid.New().String(), "-", "")
	if n > len(uniqueID) {
		n = len(uniqueID)
	}
	if n < 0 {
		n = 0
	}
	return strings.ToLower(fmt.Sprintf("%s%s", prefix, uniqueID[:n]))
}

// GenerateAccountName returns a random account name such as docdb3f9a0c12de.
func GenerateAccountName() string {
	return GenerateResourceName(AccountNamePrefix, generatedSuffixLength)
}

// GenerateResourceGroupName returns a random resource group name for new accounts.
func GenerateResourceGroupName() string {
	return GenerateResourceName(ResourceGroupNamePrefix, generatedSuffixLength)
}

// IsValidAccountName checks length and characters of a prospective account name.
// Global uniqueness can only be checked by the service.
func IsValidAccountName(name string) bool {
	if len(name) < minAccountNameLength || len(name) > maxAccountNameLength {
		return false
	}
	return accountNameRegex.MatchString(name)
}

// resourceGroupFromID extracts the resource group segment of an ARM resource id
// (/subscriptions/<sub>/resourceGroups/<rg>/providers/...).
func resourceGroupFromID(id string) string {
	parts := strings.Split(id, "/")
	for i := 0; i+1 < len(parts); i++ {
		if strings.EqualFold(parts[i], "resourceGroups") {
			return parts[i+1]
		}
	}
	return ""
}
