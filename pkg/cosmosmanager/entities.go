package cosmosmanager

import (
	"math/rand"
)

const lowercaseAlphabet = "abcdefghijklmnopqrstuvwxyz"

// TestEntity is a sample table row used to populate tables with data.
type TestEntity struct {
	PartitionKey string
	RowKey       string
	FirstName    string
	Title        string
	PageCount    int
}

// Properties renders the entity in the shape expected by the table service.
func (e TestEntity) Properties() map[string]any {
	return map[string]any{
		"PartitionKey": e.PartitionKey,
		"RowKey":       e.RowKey,
		"firstName":    e.FirstName,
		"title":        e.Title,
		"pageCount":    int32(e.PageCount),
	}
}

// NewTestEntities creates n entities sharing one random partition key. The row key is a random
// author last name.
func NewTestEntities(n int, rnd *rand.Rand) []TestEntity {
	if n <= 0 {
		return nil
	}
	id := randomString(10, rnd)
	entities := make([]TestEntity, 0, n)
	for i := 0; i < n; i++ {
		entities = append(entities, TestEntity{
			PartitionKey: id,
			PageCount:    rnd.Intn(700),
			FirstName:    randomString(7, rnd),
			RowKey:       randomString(15, rnd),
			Title:        randomString(5, rnd),
		})
	}
	return entities
}

func randomString(n int, rnd *rand.Rand) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = lowercaseAlphabet[rnd.Intn(len(lowercaseAlphabet))]
	}
	return string(b)
}
