package cosmosmanager

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/inhies/go-bytesize"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Document is a raw JSON object as read from disk.
type Document []byte

// Size returns the encoded size of the document.
func (d Document) Size() bytesize.ByteSize {
	return bytesize.New(float64(len(d)))
}

// SplitPaths splits a comma separated list of file paths, trimming whitespace and
// dropping empty entries.
func SplitPaths(list string) []string {
	var paths []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// LoadDocuments reads every file in paths and checks that each holds a single JSON object.
// All failing files are reported together.
func LoadDocuments(paths []string) ([]Document, error) {
	if len(paths) == 0 {
		return nil, errors.New("no document files supplied")
	}
	docs := make([]Document, 0, len(paths))
	var errs []error
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to read document file '%s': %w", path, err))
			continue
		}
		if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
			errs = append(errs, fmt.Errorf("file '%s' is not a valid JSON document", path))
			continue
		}
		docs = append(docs, Document(raw))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return docs, nil
}

// Repeat returns docs duplicated copies times, in order. copies below 1 is treated as 1.
func Repeat(docs []Document, copies int) []Document {
	if copies < 1 {
		copies = 1
	}
	out := make([]Document, 0, len(docs)*copies)
	for i := 0; i < copies; i++ {
		for _, d := range docs {
			cp := make(Document, len(d))
			copy(cp, d)
			out = append(out, cp)
		}
	}
	return out
}

// EnsureID returns the document's id, adding a random one when the document has none.
func EnsureID(doc Document) (Document, string, error) {
	if id := gjson.GetBytes(doc, "id"); id.Exists() && id.String() != "" {
		return doc, id.String(), nil
	}
	id := uuid.NewString()
	updated, err := sjson.SetBytes(doc, "id", id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to set document id: %w", err)
	}
	return updated, id, nil
}

// PartitionKeyValue reads the value at a partition key path such as "/address/city".
func PartitionKeyValue(doc Document, path string) (gjson.Result, bool) {
	gpath := strings.ReplaceAll(strings.Trim(path, "/"), "/", ".")
	if gpath == "" {
		return gjson.Result{}, false
	}
	res := gjson.GetBytes(doc, gpath)
	return res, res.Exists()
}
