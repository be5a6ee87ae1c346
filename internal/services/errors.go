// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"github.com/noblehomes/backoffice/internal/utils"
)

var ErrNotFound = errors.New("record not found")

// ValidationError is raised before any network call is made; the submitted
// form is intact and safe to retry.
type ValidationError struct {
	Message string
	Fields  []utils.ValidationError
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TransferError means an asset upload failed mid-batch. No document was
// written; assets uploaded earlier in the batch remain in the object store
// until the orphan sweeper collects them.
type TransferError struct {
	Key string
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed for %s: %v", e.Key, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// CommitError means every upload succeeded but the document write did not.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit failed: %v", e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
