package cosmosmanager

import (
	"fmt"
	"strings"
)

// APIKind is the "default experience" of a Cosmos DB account: the logical database API
// the account is configured to speak.
type APIKind string

const (
	APIKindDocument APIKind = "DocumentDB"
	APIKindMongo    APIKind = "MongoDB"
	APIKindGraph    APIKind = "Graph"
	APIKindTable    APIKind = "Table"
)

// DefaultExperienceTag is the ARM tag that records an account's APIKind.
const DefaultExperienceTag = "defaultExperience"

// Account kinds understood by the resource manager.
const (
	AccountKindGlobalDocumentDB = "GlobalDocumentDB"
	AccountKindMongoDB          = "MongoDB"
)

var apiKindAliases = map[string]APIKind{
	"documentdb":                      APIKindDocument,
	"sql":                             APIKindDocument,
	"core (sql)":                      APIKindDocument,
	"globaldocumentdb":                APIKindDocument,
	"mongodb":                         APIKindMongo,
	"mongo":                           APIKindMongo,
	"azure cosmos db for mongodb api": APIKindMongo,
	"graph":                           APIKindGraph,
	"gremlin":                         APIKindGraph,
	"gremlin (graph)":                 APIKindGraph,
	"table":                           APIKindTable,
	"azure table":                     APIKindTable,
}

// ParseAPIKind resolves a user or tag supplied experience name.
func ParseAPIKind(s string) (APIKind, error) {
	kind, ok := apiKindAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown default experience %q (expected one of DocumentDB, MongoDB, Graph, Table)", s)
	}
	return kind, nil
}

// AccountKind returns the ARM database account kind used to provision this experience.
func (k APIKind) AccountKind() string {
	if k == APIKindMongo {
		return AccountKindMongoDB
	}
	return AccountKindGlobalDocumentDB
}

// Capability returns the account capability the experience needs, or "" when none is required.
func (k APIKind) Capability() string {
	switch k {
	case APIKindGraph:
		return "EnableGremlin"
	case APIKindTable:
		return "EnableTable"
	default:
		return ""
	}
}

// CollectionNoun is what the experience calls a collection.
func (k APIKind) CollectionNoun() string {
	switch k {
	case APIKindGraph:
		return "graph"
	case APIKindTable:
		return "table"
	default:
		return "collection"
	}
}

func (k APIKind) String() string {
	return string(k)
}

// experienceFromTags derives the APIKind from account tags and kind, defaulting to DocumentDB.
func experienceFromTags(tags map[string]string, accountKind string) APIKind {
	if v, ok := tags[DefaultExperienceTag]; ok {
		if kind, err := ParseAPIKind(v); err == nil {
			return kind
		}
	}
	if strings.EqualFold(accountKind, AccountKindMongoDB) {
		return APIKindMongo
	}
	return APIKindDocument
}
