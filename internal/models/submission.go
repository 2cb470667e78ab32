package models

import "time"

// Submission is a student's single answer for one assignment. The composite
// unique index keeps the at-most-once guarantee even when two submit requests
// race; the application pre-check is only an optimization.
type Submission struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	AssignmentID uint       `gorm:"not null;uniqueIndex:idx_submissions_assignment_student" json:"assignmentId"`
	StudentID    uint       `gorm:"not null;uniqueIndex:idx_submissions_assignment_student" json:"studentId"`
	Answer       string     `gorm:"type:text;not null" json:"answer"`
	SubmittedAt  time.Time  `gorm:"not null" json:"submittedAt"`
	Reviewed     bool       `gorm:"not null;default:false" json:"reviewed"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	Assignment   Assignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Student      User       `gorm:"foreignKey:StudentID" json:"-"`
}
