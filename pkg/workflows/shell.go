package workflows

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/philbennett94/planet-express/pkg/console"
	"github.com/philbennett94/planet-express/pkg/cosmosmanager"
	"github.com/rs/zerolog"
)

var (
	topMenu = console.NewMenu(
		"Manage Accounts",
		"Manage Resources",
		"Help",
		"Exit",
	)
	accountMenu = console.NewMenu(
		"Create a Database Account",
		"Delete a database account",
		"List All Database Accounts",
		"List Database Account Information",
		"Help",
		"Back",
		"Exit",
	)
	resourceMenu = console.NewMenu(
		"Create a Database",
		"Delete a Database",
		"List All Databases",
		"Create a Collection",
		"Delete a Collection",
		"List All Collections",
		"Populate a collection with data",
		"Query a collection",
		"Delete documents by query",
		"Help",
		"Back",
		"Exit",
	)
)

type level int

const (
	levelTop level = iota
	levelAccounts
	levelResources
)

var errExit = errors.New("exit requested")

// Shell is the interactive menu loop of the toolbox.
type Shell struct {
	prompter  *console.Prompter
	accounts  *AccountWorkflows
	resources *ResourceWorkflows
	logger    zerolog.Logger
}

// NewShell creates the interactive shell. timeout bounds each remote call the workflows make;
// zero means no limit.
func NewShell(prompter *console.Prompter, accounts *AccountWorkflows, resources *ResourceWorkflows, logger zerolog.Logger, timeout time.Duration) (*Shell, error) {
	if prompter == nil || accounts == nil || resources == nil {
		return nil, errors.New("prompter and workflows cannot be nil")
	}
	accounts.timeout = callTimeout(timeout)
	resources.timeout = callTimeout(timeout)
	return &Shell{
		prompter:  prompter,
		accounts:  accounts,
		resources: resources,
		logger:    logger.With().Str("component", "Shell").Logger(),
	}, nil
}

// Run serves menus until the user exits, the input ends, or ctx is cancelled. Operation
// failures are printed and the menu is shown again.
func (s *Shell) Run(ctx context.Context) error {
	current := levelTop
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		next, err := s.step(ctx, current)
		switch {
		case errors.Is(err, errExit):
			return nil
		case errors.Is(err, io.EOF):
			s.logger.Debug().Msg("Input closed, leaving the shell.")
			return nil
		case err != nil:
			return err
		}
		current = next
	}
}

func (s *Shell) step(ctx context.Context, current level) (level, error) {
	switch current {
	case levelAccounts:
		return s.subMenu(ctx, accountMenu, current, "Something went wrong while executing an account level operation...", s.accounts.Run)
	case levelResources:
		return s.subMenu(ctx, resourceMenu, current, "Something went wrong while trying to process the request...", s.resources.Run)
	default:
		choice, err := topMenu.Select(s.prompter)
		if err != nil {
			return current, err
		}
		switch choice {
		case 0:
			return levelAccounts, nil
		case 1:
			return levelResources, nil
		case 2:
			s.help()
		case 3:
			return current, errExit
		default:
			s.invalidChoice()
		}
		return current, nil
	}
}

// subMenu serves a menu whose last three entries are Help, Back and Exit.
func (s *Shell) subMenu(ctx context.Context, menu console.Menu, current level, failure string, run func(context.Context, int) error) (level, error) {
	choice, err := menu.Select(s.prompter)
	if err != nil {
		return current, err
	}
	n := len(menu.Items)
	switch {
	case choice == n-1:
		return current, errExit
	case choice == n-2:
		return levelTop, nil
	case choice == n-3:
		s.help()
	case choice >= 0 && choice < n-3:
		if err := s.runOperation(ctx, failure, choice, run); err != nil {
			return current, err
		}
	default:
		s.invalidChoice()
	}
	return current, nil
}

// runOperation runs one menu operation and reports its failure. Only errors that should end
// the shell are returned.
func (s *Shell) runOperation(ctx context.Context, failure string, choice int, run func(context.Context, int) error) error {
	err := run(ctx, choice)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	out := s.prompter.Out()
	palette := s.prompter.Palette()
	palette.Error.Fprintln(out, failure)
	fmt.Fprintln(out, err.Error())
	var opErr *OperationError
	if errors.As(err, &opErr) {
		if hint := cosmosmanager.Hint(opErr.Op, opErr.Err); hint != "" {
			palette.Prompt.Fprintln(out, hint)
		}
	}
	s.logger.Debug().Err(err).Int("operation", choice).Msg("Operation failed.")
	return nil
}

func (s *Shell) help() {
	console.Help(s.prompter.Out(), s.prompter.Palette())
}

func (s *Shell) invalidChoice() {
	s.prompter.Palette().Error.Fprintln(s.prompter.Out(), console.InvalidChoice)
}
