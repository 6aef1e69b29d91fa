package cosmosmanager

import (
	"fmt"
	"net/http"
)

// Operation names the kind of remote call a hint is produced for.
type Operation string

const (
	OpListDatabases    Operation = "list-databases"
	OpCreateDatabase   Operation = "create-database"
	OpDeleteDatabase   Operation = "delete-database"
	OpCreateCollection Operation = "create-collection"
	OpDeleteCollection Operation = "delete-collection"
	OpInsertDocuments  Operation = "insert-documents"
	OpQuery            Operation = "query"
	OpAccount          Operation = "account"
)

const tooManyRequestsHint = "TooManyRequests - This means you have exceeded the number of request units per second. Wait for the retry-after interval before retrying this operation."

// Hint turns the status code carried by err into a short explanation for the console.
// It returns "" when err carries no status code.
func Hint(op Operation, err error) string {
	code := StatusCode(err)
	if code == 0 {
		return ""
	}
	switch code {
	case http.StatusBadRequest:
		if op == OpInsertDocuments {
			return "BadRequest - This means something was wrong with the document supplied. It is likely that an id or the partition key value was missing."
		}
		return "BadRequest - This means something was wrong with the request supplied. It is likely that an id was not supplied for the new resource."
	case http.StatusForbidden:
		if op == OpInsertDocuments {
			return "Forbidden - This likely means the collection in to which you were trying to create the document is full."
		}
		return "Forbidden - This means you attempted to exceed your quota for collections. Contact support to have this quota increased."
	case http.StatusNotFound:
		if op == OpDeleteDatabase || op == OpDeleteCollection {
			return "NotFound - This means the resource you tried to delete did not exist."
		}
		return "NotFound - This means the resource you referenced does not exist."
	case http.StatusConflict:
		if op == OpInsertDocuments {
			return "Conflict - This means a document with an id matching the id field of the document already existed."
		}
		return "Conflict - This means a resource with the same id already exists."
	case http.StatusRequestEntityTooLarge:
		return "RequestEntityTooLarge - This means the document exceeds the current max entity size. Consult documentation for limits and quotas."
	case http.StatusTooManyRequests:
		return tooManyRequestsHint
	default:
		return fmt.Sprintf("The status code of your request was: %d.", code)
	}
}
