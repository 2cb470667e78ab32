package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/classwork-go-api/internal/dto"
	"github.com/noah-isme/classwork-go-api/internal/models"
	"github.com/noah-isme/classwork-go-api/internal/repository"
)

// SubmissionService exposes the student-side use cases: browsing published
// assignments and submitting a single answer per assignment.
type SubmissionService interface {
	ListPublished(ctx context.Context, studentID uint, req dto.PublishedAssignmentListRequest) (dto.PublishedAssignmentListResponse, error)
	Submit(ctx context.Context, studentID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	GetMySubmission(ctx context.Context, studentID, assignmentID uint) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	events      *EventPublisher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(submissions repository.SubmissionRepository, assignments repository.AssignmentRepository, validate *validator.Validate, events *EventPublisher, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		assignments: assignments,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		events:      events,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) ListPublished(ctx context.Context, studentID uint, req dto.PublishedAssignmentListRequest) (dto.PublishedAssignmentListResponse, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)

	assignments, total, err := s.assignments.ListPublished(ctx, repository.AssignmentFilter{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return dto.PublishedAssignmentListResponse{}, err
	}

	ids := make([]uint, 0, len(assignments))
	for _, assignment := range assignments {
		ids = append(ids, assignment.ID)
	}

	submissions, err := s.submissions.ListByStudentForAssignments(ctx, studentID, ids)
	if err != nil {
		return dto.PublishedAssignmentListResponse{}, err
	}

	submittedAt := make(map[uint]time.Time, len(submissions))
	for _, submission := range submissions {
		submittedAt[submission.AssignmentID] = submission.SubmittedAt
	}

	items := make([]dto.PublishedAssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		item := dto.PublishedAssignmentResponse{
			AssignmentResponse: dto.NewAssignmentResponse(assignment),
		}
		if at, ok := submittedAt[assignment.ID]; ok {
			item.IsSubmitted = true
			when := at
			item.SubmittedAt = &when
		}
		items = append(items, item)
	}

	return dto.PublishedAssignmentListResponse{
		Assignments: items,
		Pagination:  dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func (s *submissionService) Submit(ctx context.Context, studentID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if assignment.Status != models.StatusPublished {
		return dto.SubmissionResponse{}, ErrAssignmentNotPublished
	}

	if assignment.IsPastDue(s.now()) {
		return dto.SubmissionResponse{}, ErrDeadlinePassed
	}

	// Pre-check is an optimization only; the unique index below is the source
	// of truth under concurrent submits.
	if _, err := s.submissions.GetByAssignmentAndStudent(ctx, payload.AssignmentID, studentID); err == nil {
		return dto.SubmissionResponse{}, ErrDuplicateSubmission
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		AssignmentID: payload.AssignmentID,
		StudentID:    studentID,
		Answer:       strings.TrimSpace(s.sanitizer.Sanitize(payload.Answer)),
		SubmittedAt:  s.now(),
		Reviewed:     false,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.SubmissionResponse{}, ErrDuplicateSubmission
		}
		return dto.SubmissionResponse{}, err
	}

	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	response := dto.NewSubmissionResponse(created)
	s.events.Publish(EventSubmissionCreated, response)
	s.logger.Info().Uint("submission_id", created.ID).Uint("assignment_id", created.AssignmentID).Msg("submission created")

	return response, nil
}

func (s *submissionService) GetMySubmission(ctx context.Context, studentID, assignmentID uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByAssignmentAndStudent(ctx, assignmentID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}
