package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/philbennett94/planet-express/pkg/console"
	"github.com/philbennett94/planet-express/pkg/cosmosmanager"
	"github.com/rs/zerolog"
)

// Resource menu entries, in display order.
const (
	ResourceCreateDatabase = iota
	ResourceDeleteDatabase
	ResourceListDatabases
	ResourceCreateCollection
	ResourceDeleteCollection
	ResourceListCollections
	ResourcePopulate
	ResourceQuery
	ResourceDeleteByQuery
)

// ResourceWorkflowsOptions holds the defaults offered by the resource prompts.
type ResourceWorkflowsOptions struct {
	DefaultThroughput  int32
	DefaultEntityCount int
}

// ResourceWorkflows runs database, collection and data operations against one account at a time.
type ResourceWorkflows struct {
	managers  ManagerProvider
	prompter  *console.Prompter
	formatter *console.Formatter
	logger    zerolog.Logger
	opts      ResourceWorkflowsOptions
	timeout   callTimeout
}

// NewResourceWorkflows creates the resource workflows.
func NewResourceWorkflows(managers ManagerProvider, prompter *console.Prompter, formatter *console.Formatter, logger zerolog.Logger, opts ResourceWorkflowsOptions) (*ResourceWorkflows, error) {
	if managers == nil {
		return nil, errors.New("manager provider (ManagerProvider interface) cannot be nil")
	}
	if prompter == nil || formatter == nil {
		return nil, errors.New("prompter and formatter cannot be nil")
	}
	if opts.DefaultThroughput <= 0 {
		opts.DefaultThroughput = cosmosmanager.DefaultThroughput
	}
	if opts.DefaultEntityCount <= 0 {
		opts.DefaultEntityCount = cosmosmanager.DefaultEntityCount
	}
	return &ResourceWorkflows{
		managers:  managers,
		prompter:  prompter,
		formatter: formatter,
		logger:    logger.With().Str("component", "ResourceWorkflows").Logger(),
		opts:      opts,
	}, nil
}

// Run asks which account to use and executes the selected resource operation against it.
func (w *ResourceWorkflows) Run(ctx context.Context, op int) error {
	if op < ResourceCreateDatabase || op > ResourceDeleteByQuery {
		return fmt.Errorf("unknown resource operation %d", op)
	}
	account, err := w.prompter.Ask("Please enter the name of the database account that contains the resources you want to interact with")
	if err != nil {
		return err
	}
	openCtx, cancel := w.timeout.bound(ctx)
	m, err := w.managers.ManagerFor(openCtx, account)
	cancel()
	if err != nil {
		return opError(cosmosmanager.OpAccount, err)
	}
	w.logger.Debug().Str("account", account).Str("experience", m.Kind().String()).Int("operation", op).Msg("Running resource operation.")

	switch op {
	case ResourceCreateDatabase:
		return w.createDatabase(ctx, m)
	case ResourceDeleteDatabase:
		return w.deleteDatabase(ctx, m)
	case ResourceListDatabases:
		return w.formatter.FormatNames("Database Names", m.ListDatabases())
	case ResourceCreateCollection:
		return w.createCollection(ctx, m)
	case ResourceDeleteCollection:
		return w.deleteCollection(ctx, m)
	case ResourceListCollections:
		return w.listCollections(m)
	case ResourcePopulate:
		return w.populate(ctx, m)
	case ResourceQuery:
		return w.query(ctx, m)
	default:
		return w.deleteByQuery(ctx, m)
	}
}

func (w *ResourceWorkflows) createDatabase(ctx context.Context, m cosmosmanager.DatabaseManager) error {
	name, err := w.prompter.Ask("Please enter a name for your new database. It cannot be blank")
	if err != nil {
		return err
	}
	ctx, cancel := w.timeout.bound(ctx)
	defer cancel()
	if err := m.CreateDatabase(ctx, name); err != nil {
		return opError(cosmosmanager.OpCreateDatabase, err)
	}
	fmt.Fprintf(w.prompter.Out(), "The database %s was created.\n", name)
	return nil
}

func (w *ResourceWorkflows) deleteDatabase(ctx context.Context, m cosmosmanager.DatabaseManager) error {
	name, err := w.prompter.Ask("Please enter the name of the database you want to delete. It cannot be blank")
	if err != nil {
		return err
	}
	ctx, cancel := w.timeout.bound(ctx)
	defer cancel()
	if err := m.DeleteDatabase(ctx, name); err != nil {
		return opError(cosmosmanager.OpDeleteDatabase, err)
	}
	fmt.Fprintf(w.prompter.Out(), "The database %s was deleted. The change may take a few minutes to reflect in the portal.\n", name)
	return nil
}

// database asks for the database that holds a collection. Table accounts have only one.
func (w *ResourceWorkflows) database(m cosmosmanager.DatabaseManager, question string) (string, error) {
	if m.Kind() == cosmosmanager.APIKindTable {
		return cosmosmanager.TablesDatabase, nil
	}
	return w.prompter.Ask(question)
}

func (w *ResourceWorkflows) createCollection(ctx context.Context, m cosmosmanager.DatabaseManager) error {
	noun := m.Kind().CollectionNoun()
	db, err := w.database(m, "Please enter the name of the database where the "+noun+" will reside")
	if err != nil {
		return err
	}
	name, err := w.prompter.Ask(fmt.Sprintf("Please enter a name for your new %s", noun))
	if err != nil {
		return err
	}
	spec := cosmosmanager.CollectionSpec{Database: db, Name: name}
	if m.Kind() != cosmosmanager.APIKindTable {
		spec.PartitionKey, err = w.prompter.AskOptional(fmt.Sprintf("Please enter a partition key. Press enter without typing anything to use the default partition key %s", cosmosmanager.DefaultPartitionKeyPath))
		if err != nil {
			return err
		}
		rus, ok, err := w.prompter.AskInt(fmt.Sprintf("Please enter the throughput for the %s. Press enter without typing anything to use the default throughput of %d RU", noun, w.opts.DefaultThroughput), int(w.opts.DefaultThroughput))
		if err != nil {
			return err
		}
		switch {
		case !ok:
			fmt.Fprintf(w.prompter.Out(), "No throughput value could be parsed to an integer. Creating the %s with %d RU throughput\n", noun, w.opts.DefaultThroughput)
		case rus < cosmosmanager.MinThroughput || rus > cosmosmanager.MaxThroughput:
			fmt.Fprintf(w.prompter.Out(), "Throughput must be between %d and %d RU. Creating the %s with %d RU throughput\n", cosmosmanager.MinThroughput, cosmosmanager.MaxThroughput, noun, w.opts.DefaultThroughput)
			rus = int(w.opts.DefaultThroughput)
		}
		spec.Throughput = int32(rus)
	}
	ctx, cancel := w.timeout.bound(ctx)
	defer cancel()
	if err := m.CreateCollection(ctx, spec); err != nil {
		return opError(cosmosmanager.OpCreateCollection, err)
	}
	fmt.Fprintf(w.prompter.Out(), "The %s %s was created in database %s.\n", noun, name, db)
	return nil
}

func (w *ResourceWorkflows) deleteCollection(ctx context.Context, m cosmosmanager.DatabaseManager) error {
	noun := m.Kind().CollectionNoun()
	db, err := w.database(m, "Please enter the name of the database that holds the "+noun+" you want to delete. It cannot be blank")
	if err != nil {
		return err
	}
	name, err := w.prompter.Ask(fmt.Sprintf("Please enter the name of the %s you want to delete", noun))
	if err != nil {
		return err
	}
	ctx, cancel := w.timeout.bound(ctx)
	defer cancel()
	if err := m.DeleteCollection(ctx, db, name); err != nil {
		return opError(cosmosmanager.OpDeleteCollection, err)
	}
	fmt.Fprintf(w.prompter.Out(), "The %s %s was deleted from database %s.\n", noun, name, db)
	return nil
}

func (w *ResourceWorkflows) listCollections(m cosmosmanager.DatabaseManager) error {
	db, err := w.database(m, "Please enter the name of the database for which you would like to list collections")
	if err != nil {
		return err
	}
	colls, err := m.ListCollections(db)
	if err != nil {
		return err
	}
	return w.formatter.FormatNames("Collections in Database: "+db, colls)
}

func (w *ResourceWorkflows) populate(ctx context.Context, m cosmosmanager.DatabaseManager) error {
	out := w.prompter.Out()
	req := cosmosmanager.InsertRequest{}
	if m.Kind() == cosmosmanager.APIKindTable {
		table, err := w.prompter.Ask("Please enter the name of the table to which entities will be written")
		if err != nil {
			return err
		}
		count, ok, err := w.prompter.AskInt("Please enter the number of entities you would like written to the table", w.opts.DefaultEntityCount)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(out, "Your count could not be parsed to an int... inserting %d entities to table %s.\n", count, table)
		}
		req = cosmosmanager.InsertRequest{Database: cosmosmanager.TablesDatabase, Collection: table, Copies: count}
	} else {
		noun := m.Kind().CollectionNoun()
		db, err := w.prompter.Ask("Please enter the name of the database that holds the " + noun + " you want to insert documents into. It cannot be blank")
		if err != nil {
			return err
		}
		coll, err := w.prompter.Ask(fmt.Sprintf("Please enter the name of the %s you want to insert documents into", noun))
		if err != nil {
			return err
		}
		files, err := w.prompter.Ask("Please enter one or more absolute paths to JSON files separated only by a comma")
		if err != nil {
			return err
		}
		copies, _, err := w.prompter.AskInt("How many times would you like to insert these files? Enter 1 or more", 1)
		if err != nil {
			return err
		}
		req = cosmosmanager.InsertRequest{Database: db, Collection: coll, Files: cosmosmanager.SplitPaths(files), Copies: copies}
	}

	ctx, cancel := w.timeout.bound(ctx)
	defer cancel()
	report, err := m.InsertDocuments(ctx, req)
	if report != nil {
		if ferr := w.formatter.FormatInsertReport(report); ferr != nil {
			w.logger.Warn().Err(ferr).Msg("Failed to print insert report.")
		}
	}
	return opError(cosmosmanager.OpInsertDocuments, err)
}

func (w *ResourceWorkflows) querier(m cosmosmanager.DatabaseManager) (cosmosmanager.Querier, error) {
	q, ok := m.(cosmosmanager.Querier)
	if !ok {
		return nil, fmt.Errorf("%w: queries are only available for DocumentDB and Graph accounts", cosmosmanager.ErrUnsupported)
	}
	return q, nil
}

func (w *ResourceWorkflows) query(ctx context.Context, m cosmosmanager.DatabaseManager) error {
	q, err := w.querier(m)
	if err != nil {
		return err
	}
	db, coll, query, err := w.askQuery(m.Kind().CollectionNoun(), false)
	if err != nil {
		return err
	}
	ctx, cancel := w.timeout.bound(ctx)
	defer cancel()
	report, err := q.Query(ctx, db, coll, query)
	if err != nil {
		return opError(cosmosmanager.OpQuery, err)
	}
	return w.formatter.FormatQueryReport(report)
}

func (w *ResourceWorkflows) deleteByQuery(ctx context.Context, m cosmosmanager.DatabaseManager) error {
	q, err := w.querier(m)
	if err != nil {
		return err
	}
	db, coll, query, err := w.askQuery(m.Kind().CollectionNoun(), true)
	if err != nil {
		return err
	}
	pkPath, err := w.prompter.AskOptional("Please enter the partition key path of the documents. Press enter without typing anything to use the collection's partition key")
	if err != nil {
		return err
	}
	ctx, cancel := w.timeout.bound(ctx)
	defer cancel()
	deleted, err := q.DeleteByQuery(ctx, db, coll, query, pkPath)
	fmt.Fprintf(w.prompter.Out(), "Deleted %d document(s) from %s.\n", deleted, coll)
	return opError(cosmosmanager.OpQuery, err)
}

// askQuery collects the target and text of a query. Deletes must name their query.
func (w *ResourceWorkflows) askQuery(noun string, required bool) (db, coll, query string, err error) {
	if db, err = w.prompter.Ask("Please enter the name of the database that holds the " + noun); err != nil {
		return "", "", "", err
	}
	if coll, err = w.prompter.Ask(fmt.Sprintf("Please enter the name of the %s to query", noun)); err != nil {
		return "", "", "", err
	}
	if required {
		query, err = w.prompter.Ask("Please enter a SQL query selecting the documents to delete")
	} else {
		query, err = w.prompter.AskOptional("Please enter a SQL query. Press enter without typing anything to select every document")
	}
	if err != nil {
		return "", "", "", err
	}
	return db, coll, query, nil
}
