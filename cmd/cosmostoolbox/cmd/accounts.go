package cmd

import (
	"github.com/philbennett94/planet-express/pkg/config"
	"github.com/spf13/cobra"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Inspect Cosmos DB accounts without the interactive shell",
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the database accounts of the subscription",
	Long: `List the database accounts of the subscription.

Examples:
  cosmostoolbox accounts list
  cosmostoolbox accounts list -o json`,
	Args: cobra.NoArgs,
	RunE: runAccountsList,
}

var accountsKeysCmd = &cobra.Command{
	Use:   "keys <name>",
	Short: "Show the endpoint and keys of a database account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountsKeys,
}

func init() {
	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsKeysCmd)
}

func openFromConfig(cmd *cobra.Command) (*environment, error) {
	creds, err := config.LoadAuth(cfg.AuthFile)
	if err != nil {
		return nil, err
	}
	ctx, cancel := startupContext(cmd.Context())
	defer cancel()
	return openEnvironment(ctx, creds, false)
}

func runAccountsList(cmd *cobra.Command, _ []string) error {
	env, err := openFromConfig(cmd)
	if err != nil {
		return err
	}
	defer env.Close(cmd.Context())
	return formatter.FormatAccounts(env.accounts.ListAccounts())
}

func runAccountsKeys(cmd *cobra.Command, args []string) error {
	env, err := openFromConfig(cmd)
	if err != nil {
		return err
	}
	defer env.Close(cmd.Context())

	ctx, cancel := startupContext(cmd.Context())
	defer cancel()
	info, err := env.accounts.ConnectionInfo(ctx, args[0])
	if err != nil {
		return err
	}
	return formatter.FormatConnectionInfo(info)
}
