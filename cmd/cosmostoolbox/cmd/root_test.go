package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/philbennett94/planet-express/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	err := Execute(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	t.Setenv(config.AuthLocationEnv, "")

	text, err := execute(t, "", "version", "-o", "table")
	require.NoError(t, err)
	assert.Equal(t, "Version: dev\n", text)

	text, err = execute(t, "", "version", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"dev"}`, text)
}

func TestShellWithoutCredentials(t *testing.T) {
	t.Setenv(config.AuthLocationEnv, "")
	for _, name := range []string{"AZURE_SUBSCRIPTION_ID", "AZURE_CLIENT_ID", "AZURE_CLIENT_SECRET", "AZURE_TENANT_ID"} {
		t.Setenv(name, "")
	}

	text, err := execute(t, "\ny\n", "--no-color", "-o", "table")

	require.ErrorIs(t, err, config.ErrMissingCredentials)
	assert.Contains(t, text, "Automation Tools")
	assert.Contains(t, text, "azureauth.properties file")
	assert.Contains(t, text, "Please ensure that you have properly configured an AZURE_AUTH_LOCATION environment variable.")
}

func TestInvalidOutputFlag(t *testing.T) {
	_, err := execute(t, "", "version", "-o", "xml")
	assert.Error(t, err)
}
