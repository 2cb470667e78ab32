package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/classwork-go-api/internal/dto"
	"github.com/noah-isme/classwork-go-api/internal/models"
	"github.com/noah-isme/classwork-go-api/internal/repository"
)

// AssignmentService exposes the teacher-side assignment use cases: lifecycle
// management, submission review and analytics.
type AssignmentService interface {
	List(ctx context.Context, teacherID uint, req dto.AssignmentListRequest) (dto.AssignmentListResponse, error)
	Get(ctx context.Context, id uint) (dto.AssignmentResponse, error)
	Create(ctx context.Context, teacherID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	Update(ctx context.Context, teacherID, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, teacherID, id uint) error
	Publish(ctx context.Context, teacherID, id uint) (dto.AssignmentResponse, error)
	Complete(ctx context.Context, teacherID, id uint) (dto.AssignmentResponse, error)
	ListSubmissions(ctx context.Context, teacherID, assignmentID uint) ([]dto.SubmissionResponse, error)
	MarkSubmissionReviewed(ctx context.Context, teacherID, submissionID uint) (dto.SubmissionResponse, error)
	Analytics(ctx context.Context, teacherID uint) (dto.AnalyticsResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	cache       *redis.Client
	cacheTTL    time.Duration
	events      *EventPublisher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAssignmentService builds the teacher-side service. cache and events are
// optional; nil disables analytics caching and event publishing respectively.
func NewAssignmentService(assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, validate *validator.Validate, cache *redis.Client, cacheTTL time.Duration, events *EventPublisher, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		submissions: submissions,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		cache:       cache,
		cacheTTL:    cacheTTL,
		events:      events,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
		now:         time.Now,
	}
}

func (s *assignmentService) List(ctx context.Context, teacherID uint, req dto.AssignmentListRequest) (dto.AssignmentListResponse, error) {
	if req.Status != "" && !req.Status.Valid() {
		return dto.AssignmentListResponse{}, fmt.Errorf("%w: %q", ErrInvalidStatusFilter, req.Status)
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)
	assignments, total, err := s.assignments.ListByOwner(ctx, teacherID, repository.AssignmentFilter{
		Status:   req.Status,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return dto.AssignmentListResponse{}, err
	}

	return dto.AssignmentListResponse{
		Assignments: dto.NewAssignmentResponseSlice(assignments),
		Pagination:  dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func (s *assignmentService) Get(ctx context.Context, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}

		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Create(ctx context.Context, teacherID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	dueDate, err := parseDueDate(payload.DueDate)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		Title:       s.clean(payload.Title),
		Description: s.clean(payload.Description),
		DueDate:     dueDate,
		Status:      models.StatusDraft,
		CreatedByID: teacherID,
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	created, err := s.assignments.GetByID(ctx, assignment.ID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", created.ID).Uint("teacher_id", teacherID).Msg("assignment created")

	return dto.NewAssignmentResponse(created), nil
}

func (s *assignmentService) Update(ctx context.Context, teacherID, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.ownedAssignment(ctx, teacherID, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if !assignment.Editable() {
		return dto.AssignmentResponse{}, ErrNotEditable
	}

	if payload.Title != nil {
		assignment.Title = s.clean(*payload.Title)
	}

	if payload.Description != nil {
		assignment.Description = s.clean(*payload.Description)
	}

	if payload.DueDate != nil {
		dueDate, err := parseDueDate(*payload.DueDate)
		if err != nil {
			return dto.AssignmentResponse{}, err
		}
		assignment.DueDate = dueDate
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	updated, err := s.assignments.GetByID(ctx, assignment.ID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Msg("assignment updated")

	return dto.NewAssignmentResponse(updated), nil
}

func (s *assignmentService) Delete(ctx context.Context, teacherID, id uint) error {
	assignment, err := s.ownedAssignment(ctx, teacherID, id)
	if err != nil {
		return err
	}

	if !assignment.Editable() {
		return ErrNotEditable
	}

	if err := s.assignments.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	s.logger.Info().Uint("assignment_id", id).Msg("assignment deleted")
	return nil
}

func (s *assignmentService) Publish(ctx context.Context, teacherID, id uint) (dto.AssignmentResponse, error) {
	response, err := s.transition(ctx, teacherID, id, models.StatusPublished)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.events.Publish(EventAssignmentPublished, response)
	s.logger.Info().Uint("assignment_id", id).Msg("assignment published")

	return response, nil
}

func (s *assignmentService) Complete(ctx context.Context, teacherID, id uint) (dto.AssignmentResponse, error) {
	response, err := s.transition(ctx, teacherID, id, models.StatusCompleted)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.events.Publish(EventAssignmentCompleted, response)
	s.logger.Info().Uint("assignment_id", id).Msg("assignment completed")

	return response, nil
}

func (s *assignmentService) transition(ctx context.Context, teacherID, id uint, next models.AssignmentStatus) (dto.AssignmentResponse, error) {
	assignment, err := s.ownedAssignment(ctx, teacherID, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if !assignment.Status.CanTransitionTo(next) {
		return dto.AssignmentResponse{}, &InvalidTransitionError{From: assignment.Status, To: next}
	}

	assignment.Status = next
	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	updated, err := s.assignments.GetByID(ctx, assignment.ID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(updated), nil
}

func (s *assignmentService) ListSubmissions(ctx context.Context, teacherID, assignmentID uint) ([]dto.SubmissionResponse, error) {
	if _, err := s.ownedAssignment(ctx, teacherID, assignmentID); err != nil {
		return nil, err
	}

	submissions, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *assignmentService) MarkSubmissionReviewed(ctx context.Context, teacherID, submissionID uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if _, err := s.ownedAssignment(ctx, teacherID, submission.AssignmentID); err != nil {
		return dto.SubmissionResponse{}, err
	}

	// Marking twice is not an error.
	if !submission.Reviewed {
		submission.Reviewed = true
		if err := s.submissions.Update(ctx, &submission); err != nil {
			return dto.SubmissionResponse{}, err
		}
	}

	updated, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", submission.ID).Msg("submission marked reviewed")

	return dto.NewSubmissionResponse(updated), nil
}

func (s *assignmentService) Analytics(ctx context.Context, teacherID uint) (dto.AnalyticsResponse, error) {
	cacheKey := fmt.Sprintf("analytics:teacher:%d", teacherID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.AnalyticsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("teacher_id", teacherID).Msg("analytics cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read analytics cache")
		}
	}

	assignments, err := s.assignments.ListOwned(ctx, teacherID)
	if err != nil {
		return dto.AnalyticsResponse{}, err
	}

	ids := make([]uint, 0, len(assignments))
	for _, assignment := range assignments {
		ids = append(ids, assignment.ID)
	}

	counts, err := s.submissions.CountByAssignments(ctx, ids)
	if err != nil {
		return dto.AnalyticsResponse{}, err
	}

	response := buildAnalytics(assignments, counts)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store analytics cache")
			}
		}
	}

	return response, nil
}

func buildAnalytics(assignments []models.Assignment, counts map[uint]int64) dto.AnalyticsResponse {
	items := make([]dto.AssignmentAnalytics, 0, len(assignments))
	summary := dto.AnalyticsSummary{TotalAssignments: len(assignments)}

	for _, assignment := range assignments {
		count := counts[assignment.ID]
		items = append(items, dto.AssignmentAnalytics{
			AssignmentID:    assignment.ID,
			Title:           assignment.Title,
			Status:          assignment.Status,
			SubmissionCount: count,
		})

		summary.TotalSubmissions += count
		if assignment.Status == models.StatusPublished {
			summary.PublishedAssignments++
		}
	}

	return dto.AnalyticsResponse{Assignments: items, Summary: summary}
}

// ownedAssignment resolves an assignment and enforces ownership. Ownership is
// checked before any state guard so the caller learns Forbidden, not a state
// error, on someone else's assignment.
func (s *assignmentService) ownedAssignment(ctx context.Context, teacherID, id uint) (models.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}

	if !assignment.OwnedBy(teacherID) {
		return models.Assignment{}, ErrNotOwner
	}

	return assignment, nil
}

// dueDateLayouts lists the accepted due date formats. A date-only value is
// read as midnight UTC of that day.
var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDueDate(value string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDueDate, value)
}

func (s *assignmentService) clean(input string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(input))
}

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = dto.DefaultPage
	}
	if pageSize <= 0 {
		pageSize = dto.DefaultPageSize
	}
	return page, pageSize
}
