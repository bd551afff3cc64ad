package crawler

import (
	"errors"
	"fmt"

	"github.com/nao1215/replygraph/internal/model"
)

var (
	// ErrMalformedRecord matches every *MalformedRecordError.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrNilTable is returned by Crawl when no table is given.
	ErrNilTable = errors.New("edge table must not be nil")

	// ErrEmptyPage is wrapped into a fetch error when the lister returns
	// neither a page nor an error.
	ErrEmptyPage = errors.New("lister returned no page")
)

// MalformedRecordError reports a raw record that lacks a required field or
// carries an invalid value.
type MalformedRecordError struct {
	// Kind is the shape that was being normalized.
	Kind model.Kind

	// ID is the record ID, or empty if the ID itself is missing.
	ID string

	// Field is the JSON path of the offending field, e.g. "snippet.likeCount".
	Field string

	// Problem describes what is wrong with the field.
	Problem string
}

// Error implements error.
func (e *MalformedRecordError) Error() string {
	id := e.ID
	if id == "" {
		id = "<no id>"
	}
	return fmt.Sprintf("malformed %s record %s: %s %s", e.Kind, id, e.Problem, e.Field)
}

// Is makes MalformedRecordError match ErrMalformedRecord.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}
