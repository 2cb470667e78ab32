package service

import (
	"errors"
	"fmt"

	"github.com/noah-isme/classwork-go-api/internal/models"
)

// Domain errors surfaced to handlers and mapped onto HTTP status codes there.
var (
	// ErrAssignmentNotFound indicates the requested assignment does not exist.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrSubmissionNotFound indicates the requested submission does not exist.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrNotOwner indicates the caller is not the teacher who created the assignment.
	ErrNotOwner = errors.New("not authorized for this assignment")
	// ErrNotEditable indicates a mutation was attempted outside Draft status.
	ErrNotEditable = errors.New("can only modify assignments in Draft status")
	// ErrInvalidDueDate indicates the due date could not be parsed.
	ErrInvalidDueDate = errors.New("invalid due date format")
	// ErrInvalidStatusFilter indicates an unknown lifecycle state in a list filter.
	ErrInvalidStatusFilter = errors.New("invalid status filter")
	// ErrAssignmentNotPublished indicates the assignment is not open for submissions.
	ErrAssignmentNotPublished = errors.New("assignment not published")
	// ErrDeadlinePassed indicates the submission window has closed.
	ErrDeadlinePassed = errors.New("deadline passed")
	// ErrDuplicateSubmission indicates the student already submitted for this assignment.
	ErrDuplicateSubmission = errors.New("already submitted for this assignment")
)

// InvalidTransitionError reports a lifecycle action attempted from the wrong
// status. Transitions only flow Draft -> Published -> Completed.
type InvalidTransitionError struct {
	From models.AssignmentStatus
	To   models.AssignmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition assignment from %s to %s", e.From, e.To)
}
