package cosmosmanager_test

import (
	"testing"

	"github.com/philbennett94/planet-express/pkg/cosmosmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAPIKind(t *testing.T) {
	cases := map[string]cosmosmanager.APIKind{
		"DocumentDB":                      cosmosmanager.APIKindDocument,
		"  mongodb ":                      cosmosmanager.APIKindMongo,
		"Gremlin (graph)":                 cosmosmanager.APIKindGraph,
		"Azure Table":                     cosmosmanager.APIKindTable,
		"Core (SQL)":                      cosmosmanager.APIKindDocument,
		"Azure Cosmos DB for MongoDB API": cosmosmanager.APIKindMongo,
	}
	for input, want := range cases {
		got, err := cosmosmanager.ParseAPIKind(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := cosmosmanager.ParseAPIKind("Cassandra")
	assert.Error(t, err)
}

func TestAPIKind_Provisioning(t *testing.T) {
	assert.Equal(t, cosmosmanager.AccountKindMongoDB, cosmosmanager.APIKindMongo.AccountKind())
	assert.Equal(t, cosmosmanager.AccountKindGlobalDocumentDB, cosmosmanager.APIKindGraph.AccountKind())
	assert.Equal(t, "EnableGremlin", cosmosmanager.APIKindGraph.Capability())
	assert.Equal(t, "EnableTable", cosmosmanager.APIKindTable.Capability())
	assert.Empty(t, cosmosmanager.APIKindDocument.Capability())
	assert.Equal(t, "graph", cosmosmanager.APIKindGraph.CollectionNoun())
	assert.Equal(t, "collection", cosmosmanager.APIKindMongo.CollectionNoun())
}
