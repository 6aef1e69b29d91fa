package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/philbennett94/planet-express/pkg/console"
	"github.com/philbennett94/planet-express/pkg/cosmosmanager"
	"github.com/rs/zerolog"
)

// Account menu entries, in display order.
const (
	AccountCreate = iota
	AccountDelete
	AccountList
	AccountConnectionInfo
)

// AccountWorkflows runs the interactive account operations.
type AccountWorkflows struct {
	accounts  AccountService
	managers  ManagerProvider
	prompter  *console.Prompter
	formatter *console.Formatter
	logger    zerolog.Logger
	timeout   callTimeout
}

// NewAccountWorkflows creates the account workflows. managers may be nil; when set, the cached
// manager of a deleted account is closed.
func NewAccountWorkflows(accounts AccountService, managers ManagerProvider, prompter *console.Prompter, formatter *console.Formatter, logger zerolog.Logger) (*AccountWorkflows, error) {
	if accounts == nil {
		return nil, errors.New("account service (AccountService interface) cannot be nil")
	}
	if prompter == nil || formatter == nil {
		return nil, errors.New("prompter and formatter cannot be nil")
	}
	return &AccountWorkflows{
		accounts:  accounts,
		managers:  managers,
		prompter:  prompter,
		formatter: formatter,
		logger:    logger.With().Str("component", "AccountWorkflows").Logger(),
	}, nil
}

// Run executes the account operation selected from the menu.
func (w *AccountWorkflows) Run(ctx context.Context, op int) error {
	switch op {
	case AccountCreate:
		return w.CreateAccount(ctx)
	case AccountDelete:
		return w.DeleteAccount(ctx)
	case AccountList:
		return w.ListAccounts()
	case AccountConnectionInfo:
		return w.ShowConnectionInfo(ctx)
	default:
		return fmt.Errorf("unknown account operation %d", op)
	}
}

// CreateAccount prompts for the optional account settings and provisions the account.
func (w *AccountWorkflows) CreateAccount(ctx context.Context) error {
	out := w.prompter.Out()
	fmt.Fprintln(out, "The following prompts are optional. Press <enter>, without typing a response, when prompted to yield the default settings for an account.")

	questions := []string{
		"Please enter a name for the account",
		"Please enter an azure region where the account will be located",
		"Please enter the name of a resource group",
		"Please enter the database model. Enter MongoDB, or DocumentDB for all other database models",
		"Please enter the default experience for your Database. Enter one of the following... DocumentDB, MongoDB, Graph, Table",
	}
	answers := make([]string, len(questions))
	for i, q := range questions {
		answer, err := w.prompter.AskOptional(q)
		if err != nil {
			return err
		}
		answers[i] = answer
	}

	req := cosmosmanager.CreateAccountRequest{
		Name:          answers[0],
		Region:        answers[1],
		ResourceGroup: answers[2],
		Model:         answers[3],
		Experience:    answers[4],
	}
	fmt.Fprintln(out, "Creating the database account. This process can take several minutes...")
	ctx, cancel := w.timeout.bound(ctx)
	defer cancel()
	info, err := w.accounts.CreateAccount(ctx, req)
	if info != nil {
		fmt.Fprintf(out, "The database account %s was created with the default experience %s. Changes in default experience may not immediately be reflected in the portal.\n", info.Name, info.DefaultExperience)
	}
	if err != nil {
		if info != nil {
			fmt.Fprintln(out, "Something went wrong while trying to set the defaultExperience tag... set the tag through the portal or retry.")
		}
		return opError(cosmosmanager.OpAccount, err)
	}
	return nil
}

// DeleteAccount prompts for an account name and deletes the account.
func (w *AccountWorkflows) DeleteAccount(ctx context.Context) error {
	name, err := w.prompter.Ask("Please enter the name of a database account")
	if err != nil {
		return err
	}
	ctx, cancel := w.timeout.bound(ctx)
	defer cancel()
	if err := w.accounts.DeleteAccount(ctx, name); err != nil {
		return opError(cosmosmanager.OpAccount, err)
	}
	if w.managers != nil {
		if err := w.managers.Forget(ctx, name); err != nil {
			w.logger.Warn().Err(err).Str("account", name).Msg("Failed to close the manager of a deleted account.")
		}
	}
	out := w.prompter.Out()
	fmt.Fprintf(out, "The database account %s was removed. This change may not be reflected in the portal for several minutes.\n", name)
	fmt.Fprintln(out, "Please wait a minute for this operation to go through before moving on to the next operation, otherwise azure will not process the request.")
	return nil
}

// ListAccounts prints every registered account.
func (w *AccountWorkflows) ListAccounts() error {
	return w.formatter.FormatAccounts(w.accounts.ListAccounts())
}

// ShowConnectionInfo prompts for an account name and prints its endpoint and keys.
func (w *AccountWorkflows) ShowConnectionInfo(ctx context.Context) error {
	name, err := w.prompter.Ask("Please enter the name of a database account")
	if err != nil {
		return err
	}
	ctx, cancel := w.timeout.bound(ctx)
	defer cancel()
	info, err := w.accounts.ConnectionInfo(ctx, name)
	if err != nil {
		return opError(cosmosmanager.OpAccount, err)
	}
	return w.formatter.FormatConnectionInfo(info)
}
