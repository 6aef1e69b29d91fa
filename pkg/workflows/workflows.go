package workflows

import (
	"context"
	"time"

	"github.com/philbennett94/planet-express/pkg/cosmosmanager"
)

// AccountService is the account surface the workflows drive. *cosmosmanager.AccountManager
// satisfies it.
type AccountService interface {
	CreateAccount(ctx context.Context, req cosmosmanager.CreateAccountRequest) (*cosmosmanager.AccountInfo, error)
	DeleteAccount(ctx context.Context, name string) error
	ListAccounts() []cosmosmanager.AccountInfo
	ConnectionInfo(ctx context.Context, name string) ([]cosmosmanager.KeyValue, error)
}

// ManagerProvider hands out the DatabaseManager of an account. *cosmosmanager.Toolbox
// satisfies it.
type ManagerProvider interface {
	ManagerFor(ctx context.Context, accountName string) (cosmosmanager.DatabaseManager, error)
	Forget(ctx context.Context, accountName string) error
}

// OperationError ties a failed remote call to the operation it was made for, so the shell can
// print the matching status hint.
type OperationError struct {
	Op  cosmosmanager.Operation
	Err error
}

func (e *OperationError) Error() string { return e.Err.Error() }

func (e *OperationError) Unwrap() error { return e.Err }

func opError(op cosmosmanager.Operation, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Op: op, Err: err}
}

// callTimeout bounds the remote calls of a workflow. Time spent answering prompts does not
// count against it. Zero means no limit.
type callTimeout time.Duration

func (t callTimeout) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if t <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(t))
}
