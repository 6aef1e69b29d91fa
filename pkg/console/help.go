package console

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const (
	rule    = "--------------------"
	docsURL = "https://docs.microsoft.com/en-us/dotnet/azure/dotnet-sdk-azure-get-started?view=azure-dotnet"
)

// Help writes the description of the toolbox and of every menu.
func Help(w io.Writer, palette *Palette) {
	palette.Error.Fprintln(w, "Welcome to Planet Express. This program was created to help automate common tasks related to CosmosDB and provide examples for working with Cosmos resources.")

	section(w, palette.Section, "Dependencies: ")
	fmt.Fprintln(w, "\t Planet Express requires an azureauth.properties file (or the AZURE_* environment variables) for every operation.")
	fmt.Fprintln(w, "\t Pass the file with --auth-file, set AZURE_AUTH_LOCATION, or enter its path when prompted at start up.")
	fmt.Fprintln(w, "\t For more information about azure authentication please visit: "+docsURL)

	section(w, palette.Prompt, "Functionality: ")
	fmt.Fprintln(w, "\t > Manage CosmosDB accounts (list, create, delete, show keys and endpoint).")
	fmt.Fprintln(w, "\t > Manage CosmosDB resources (Databases, Collections => list, create, delete).")
	fmt.Fprintln(w, "\t > Ingest data (with time and size tracking).")
	fmt.Fprintln(w, "\t > Query data (with time and request charge tracking).")

	section(w, palette.Prompt, "Menu Items: ")
	palette.Heading.Fprintln(w, "\t Top Level Menu: ")
	fmt.Fprintln(w, "\t > [0]: Manage Accounts... Interact with Cosmos DB account level objects")
	fmt.Fprintln(w, "\t > [1]: Manage Resources... Interact with Cosmos DB resource level objects")
	palette.Heading.Fprintln(w, "\t\t Manage Accounts Menu: ")
	fmt.Fprintln(w, "\t\t > [0]: Create a Database Account... creates a database account with any database model except cassandra")
	fmt.Fprintln(w, "\t\t > [1]: Delete a database account... deletes a database account")
	fmt.Fprintln(w, "\t\t > [2]: List All Database Accounts... lists all cosmos db accounts for a given azure subscription")
	fmt.Fprintln(w, "\t\t > [3]: List Database Account Information... lists account keys and endpoint for a given account")
	palette.Heading.Fprintln(w, "\t\t Manage Resources Menu: ")
	fmt.Fprintln(w, "\t\t > [0]: Create a Database... create a database within a given database account")
	fmt.Fprintln(w, "\t\t > [1]: Delete a Database... delete a database within a given database account")
	fmt.Fprintln(w, "\t\t > [2]: List All Databases... list all databases within a given database account")
	fmt.Fprintln(w, "\t\t > [3]: Create a Collection... create a collection within a given database")
	fmt.Fprintln(w, "\t\t > [4]: Delete a Collection... delete a collection within a given database")
	fmt.Fprintln(w, "\t\t > [5]: List All Collections... list all collections within a given database")
	fmt.Fprintln(w, "\t\t > [6]: Populate a collection with data... insert one or more items into a given database")
	fmt.Fprintln(w, "\t\t > [7]: Query a collection... run a SQL query against a document or graph collection")
	fmt.Fprintln(w, "\t\t > [8]: Delete documents by query... delete every document a SQL query returns")
}

func section(w io.Writer, c *color.Color, title string) {
	c.Fprintln(w, rule)
	c.Fprintln(w, title)
	c.Fprintln(w, rule)
}

// AuthGuidance writes the setup instructions shown when no credentials can be loaded.
func AuthGuidance(w io.Writer, palette *Palette) {
	palette.Error.Fprintln(w, "Please ensure that you have properly configured an AZURE_AUTH_LOCATION environment variable.")
	palette.Error.Fprintln(w, `Follow the steps in the linked article under section "Set up authentication" to properly generate the AZURE_AUTH_LOCATION environment variable: `+docsURL)
	palette.Error.Fprintln(w, "Once your environment is properly configured, please run the Toolbox again.")
}
