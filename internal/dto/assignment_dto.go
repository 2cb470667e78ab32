package dto

import (
	"time"

	"github.com/noah-isme/classwork-go-api/internal/models"
)

// AssignmentCreateRequest describes the payload for creating a new assignment.
type AssignmentCreateRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	DueDate     string `json:"dueDate" validate:"required"`
}

// AssignmentUpdateRequest describes a partial update. Absent fields are left
// unchanged.
type AssignmentUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	DueDate     *string `json:"dueDate" validate:"omitempty,min=1"`
}

// AssignmentListRequest carries pagination and the optional status filter for
// a teacher's own assignments. The status filter is checked against the
// lifecycle states in the service.
type AssignmentListRequest struct {
	Page     int
	PageSize int
	Status   models.AssignmentStatus
}

// UserLite is the identity projection attached to API responses. Nothing
// beyond id, name and email is ever exposed.
type UserLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewUserLite projects a user onto the response shape.
func NewUserLite(user models.User) UserLite {
	return UserLite{ID: user.ID, Name: user.Name, Email: user.Email}
}

// AssignmentResponse is the serialized representation returned to API clients.
type AssignmentResponse struct {
	ID          uint                    `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	DueDate     time.Time               `json:"dueDate"`
	Status      models.AssignmentStatus `json:"status"`
	CreatedBy   UserLite                `json:"createdBy"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

// AssignmentListResponse wraps a paginated page of assignments.
type AssignmentListResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
	Pagination  PaginationMeta       `json:"pagination"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		DueDate:     model.DueDate,
		Status:      model.Status,
		CreatedBy:   NewUserLite(model.CreatedBy),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}

// AssignmentAnalytics reports the submission count for one owned assignment.
type AssignmentAnalytics struct {
	AssignmentID    uint                    `json:"assignmentId"`
	Title           string                  `json:"title"`
	Status          models.AssignmentStatus `json:"status"`
	SubmissionCount int64                   `json:"submissionCount"`
}

// AnalyticsSummary aggregates counts across all of a teacher's assignments.
type AnalyticsSummary struct {
	TotalAssignments     int   `json:"totalAssignments"`
	PublishedAssignments int   `json:"publishedAssignments"`
	TotalSubmissions     int64 `json:"totalSubmissions"`
}

// AnalyticsResponse is the teacher analytics payload.
type AnalyticsResponse struct {
	Assignments []AssignmentAnalytics `json:"assignments"`
	Summary     AnalyticsSummary      `json:"summary"`
}
