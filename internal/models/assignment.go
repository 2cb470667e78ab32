package models

import "time"

// AssignmentStatus is the lifecycle state of an assignment.
type AssignmentStatus string

// Lifecycle states. Transitions are one-way: Draft -> Published -> Completed.
const (
	StatusDraft     AssignmentStatus = "Draft"
	StatusPublished AssignmentStatus = "Published"
	StatusCompleted AssignmentStatus = "Completed"
)

// transitions is the explicit lifecycle transition table. A status absent from
// the table is terminal.
var transitions = map[AssignmentStatus]AssignmentStatus{
	StatusDraft:     StatusPublished,
	StatusPublished: StatusCompleted,
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	allowed, ok := transitions[s]
	return ok && allowed == next
}

// Valid reports whether the value is a known lifecycle state.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusCompleted:
		return true
	}
	return false
}

// Assignment represents a piece of work a teacher sets for students.
type Assignment struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	Description string           `gorm:"type:text;not null" json:"description"`
	DueDate     time.Time        `gorm:"not null" json:"dueDate"`
	Status      AssignmentStatus `gorm:"size:32;not null;default:Draft" json:"status"`
	CreatedByID uint             `gorm:"not null;index" json:"createdById"`
	CreatedBy   User             `gorm:"foreignKey:CreatedByID" json:"createdBy"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Submissions []Submission     `json:"-"`
}

// Editable reports whether title, description and due date may still change.
// Mutation and deletion are only allowed while the assignment is a draft.
func (a Assignment) Editable() bool {
	return a.Status == StatusDraft
}

// OwnedBy reports whether the given user created the assignment.
func (a Assignment) OwnedBy(userID uint) bool {
	return a.CreatedByID == userID
}

// IsPastDue returns true when the deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}
