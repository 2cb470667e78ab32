package dto

import (
	"time"

	"github.com/noah-isme/classwork-go-api/internal/models"
)

// SubmissionCreateRequest describes the payload for submitting an answer.
type SubmissionCreateRequest struct {
	AssignmentID uint   `json:"assignmentId" validate:"required,gt=0"`
	Answer       string `json:"answer" validate:"required"`
}

// AssignmentLite summarizes an assignment inside submission responses.
type AssignmentLite struct {
	ID          uint                    `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	DueDate     time.Time               `json:"dueDate"`
	Status      models.AssignmentStatus `json:"status"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID           uint           `json:"id"`
	AssignmentID uint           `json:"assignmentId"`
	StudentID    uint           `json:"studentId"`
	Answer       string         `json:"answer"`
	SubmittedAt  time.Time      `json:"submittedAt"`
	Reviewed     bool           `json:"reviewed"`
	Assignment   AssignmentLite `json:"assignment"`
	Student      UserLite       `json:"student"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		Answer:       model.Answer,
		SubmittedAt:  model.SubmittedAt,
		Reviewed:     model.Reviewed,
	}

	if model.Assignment.ID != 0 {
		response.Assignment = AssignmentLite{
			ID:          model.Assignment.ID,
			Title:       model.Assignment.Title,
			Description: model.Assignment.Description,
			DueDate:     model.Assignment.DueDate,
			Status:      model.Assignment.Status,
		}
	}

	if model.Student.ID != 0 {
		response.Student = NewUserLite(model.Student)
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}

// PublishedAssignmentResponse is the student view of a published assignment,
// annotated with the caller's own submission state.
type PublishedAssignmentResponse struct {
	AssignmentResponse
	IsSubmitted bool       `json:"isSubmitted"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

// PublishedAssignmentListRequest carries pagination for the student listing.
type PublishedAssignmentListRequest struct {
	Page     int
	PageSize int
}

// PublishedAssignmentListResponse wraps the paginated student view.
type PublishedAssignmentListResponse struct {
	Assignments []PublishedAssignmentResponse `json:"assignments"`
	Pagination  PaginationMeta                `json:"pagination"`
}
