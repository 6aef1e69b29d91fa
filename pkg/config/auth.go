package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/file"
)

// ErrMissingCredentials is returned when the service principal cannot be assembled.
var ErrMissingCredentials = errors.New("missing azure credentials")

// Credentials identify the service principal and subscription the toolbox acts for.
type Credentials struct {
	SubscriptionID string
	ClientID       string
	ClientSecret   string
	TenantID       string
}

// credentialKeys maps azureauth.properties keys to the environment variables used as fallback.
var credentialKeys = []struct {
	key string
	env string
}{
	{key: "subscription", env: "AZURE_SUBSCRIPTION_ID"},
	{key: "client", env: "AZURE_CLIENT_ID"},
	{key: "key", env: "AZURE_CLIENT_SECRET"},
	{key: "tenant", env: "AZURE_TENANT_ID"},
}

// LoadAuth reads an azureauth.properties file. Keys absent from the file, or every key when
// path is empty, are taken from the AZURE_* environment variables.
func LoadAuth(path string) (*Credentials, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), dotenv.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read auth file '%s': %w", path, err)
		}
	}

	values := make(map[string]string, len(credentialKeys))
	var missing []string
	for _, ck := range credentialKeys {
		v := strings.TrimSpace(k.String(ck.key))
		if v == "" {
			v = strings.TrimSpace(os.Getenv(ck.env))
		}
		if v == "" {
			missing = append(missing, ck.key)
		}
		values[ck.key] = v
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	return &Credentials{
		SubscriptionID: values["subscription"],
		ClientID:       values["client"],
		ClientSecret:   values["key"],
		TenantID:       values["tenant"],
	}, nil
}
