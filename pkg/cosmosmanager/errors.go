package cosmosmanager

import (
	"errors"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrAccountNotFound is returned when an account name is not present in the registry.
	ErrAccountNotFound = errors.New("cosmos: database account not found")
	// ErrDatabaseNotFound is returned when a database is not present in an account's registry.
	ErrDatabaseNotFound = errors.New("cosmos: database not found")
	// ErrUnsupported is returned for operations an API kind does not offer.
	ErrUnsupported = errors.New("cosmos: operation not supported for this API")
	// ErrInvalidName is returned when a resource name fails validation.
	ErrInvalidName = errors.New("cosmos: invalid resource name")
	// ErrAccountExists is returned when a new account would reuse a registered name.
	ErrAccountExists = errors.New("cosmos: database account already exists")
	// ErrIncompatibleAccount is returned when an account model cannot serve the requested experience.
	ErrIncompatibleAccount = errors.New("cosmos: account model does not support the default experience")
)

// mongoThrottledCode is the server error code Cosmos DB's MongoDB API returns when the
// request rate exceeds provisioned throughput.
const mongoThrottledCode = 16500

// StatusCode extracts the HTTP status carried by an Azure SDK error. Mongo throttling is
// reported as 429. It returns 0 when err carries no status.
func StatusCode(err error) int {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode
	}
	if isMongoThrottled(err) {
		return http.StatusTooManyRequests
	}
	return 0
}

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsConflict reports whether err is a remote 409.
func IsConflict(err error) bool {
	return StatusCode(err) == http.StatusConflict
}

func isMongoThrottled(err error) bool {
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorCode(mongoThrottledCode)
	}
	return false
}
