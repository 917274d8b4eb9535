package model

import "github.com/dmsconsole/metaform/pkg/domain/types"

// SubmissionEntry is one field value of a submission payload
type SubmissionEntry struct {
	FieldID types.FieldID
	Value   string
}

// Submission is the payload to create or update one item. ItemID is set
// for updates, FileName for creates; never both.
type Submission struct {
	Items    []SubmissionEntry
	FileName string
	ItemID   *types.ItemID
	Batch    BatchRef
}

// IsUpdate reports whether the submission targets an existing item
func (s *Submission) IsUpdate() bool {
	return s.ItemID != nil
}

// SubmitResult is the identity of the created or updated item
type SubmitResult struct {
	ItemID types.ItemID
	Name   string
}
