package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/classwork-go-api/internal/dto"
	"github.com/noah-isme/classwork-go-api/internal/models"
)

func newSubmissionFixture(t *testing.T) (*memoryAssignmentRepo, *memorySubmissionRepo, SubmissionService, AssignmentService) {
	t.Helper()

	assignments := newMemoryAssignmentRepo()
	assignments.addUser(models.User{ID: teacherAlice, Name: "Alice", Email: "alice@example.com", Role: models.RoleTeacher})
	assignments.addUser(models.User{ID: studentCarol, Name: "Carol", Email: "carol@example.com", Role: models.RoleStudent})
	submissions := newMemorySubmissionRepo(assignments)

	validate := validator.New(validator.WithRequiredStructEnabled())
	studentSvc := NewSubmissionService(submissions, assignments, validate, nil, testLogger())
	teacherSvc := NewAssignmentService(assignments, submissions, validate, nil, 0, nil, testLogger())

	return assignments, submissions, studentSvc, teacherSvc
}

func publishAssignment(t *testing.T, teacherSvc AssignmentService, title string) dto.AssignmentResponse {
	t.Helper()
	created := createDraft(t, teacherSvc, teacherAlice, title)
	published, err := teacherSvc.Publish(context.Background(), teacherAlice, created.ID)
	require.NoError(t, err)
	return published
}

func TestSubmissionServiceSubmitSuccess(t *testing.T) {
	_, _, studentSvc, teacherSvc := newSubmissionFixture(t)
	assignment := publishAssignment(t, teacherSvc, "HW1")

	submission, err := studentSvc.Submit(context.Background(), studentCarol, dto.SubmissionCreateRequest{
		AssignmentID: assignment.ID,
		Answer:       "42",
	})
	require.NoError(t, err)
	require.False(t, submission.Reviewed)
	require.Equal(t, "42", submission.Answer)
	require.Equal(t, assignment.ID, submission.Assignment.ID)
	require.Equal(t, "carol@example.com", submission.Student.Email)
	require.False(t, submission.SubmittedAt.IsZero())
}

func TestSubmissionServiceSubmitValidatesInput(t *testing.T) {
	_, _, studentSvc, _ := newSubmissionFixture(t)

	_, err := studentSvc.Submit(context.Background(), studentCarol, dto.SubmissionCreateRequest{})
	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)

	_, err = studentSvc.Submit(context.Background(), studentCarol, dto.SubmissionCreateRequest{AssignmentID: 1})
	require.ErrorAs(t, err, &validationErrors)
}

func TestSubmissionServiceSubmitUnknownAssignment(t *testing.T) {
	_, _, studentSvc, _ := newSubmissionFixture(t)

	_, err := studentSvc.Submit(context.Background(), studentCarol, dto.SubmissionCreateRequest{AssignmentID: 999, Answer: "42"})
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestSubmissionServiceSubmitRequiresPublished(t *testing.T) {
	_, _, studentSvc, teacherSvc := newSubmissionFixture(t)
	draft := createDraft(t, teacherSvc, teacherAlice, "HW1")

	_, err := studentSvc.Submit(context.Background(), studentCarol, dto.SubmissionCreateRequest{AssignmentID: draft.ID, Answer: "42"})
	require.ErrorIs(t, err, ErrAssignmentNotPublished)

	// The published check also covers assignments completed mid-window.
	_, err = teacherSvc.Publish(context.Background(), teacherAlice, draft.ID)
	require.NoError(t, err)
	_, err = teacherSvc.Complete(context.Background(), teacherAlice, draft.ID)
	require.NoError(t, err)

	_, err = studentSvc.Submit(context.Background(), studentCarol, dto.SubmissionCreateRequest{AssignmentID: draft.ID, Answer: "42"})
	require.ErrorIs(t, err, ErrAssignmentNotPublished)
}

func TestSubmissionServiceSubmitAfterDeadline(t *testing.T) {
	_, submissions, studentSvc, teacherSvc := newSubmissionFixture(t)
	assignment := publishAssignment(t, teacherSvc, "HW1")

	svc := studentSvc.(*submissionService)
	svc.now = func() time.Time { return assignment.DueDate.Add(time.Hour) }

	_, err := studentSvc.Submit(context.Background(), studentCarol, dto.SubmissionCreateRequest{AssignmentID: assignment.ID, Answer: "42"})
	require.ErrorIs(t, err, ErrDeadlinePassed)
	require.Empty(t, submissions.submissions, "no record is created after the deadline")
}

func TestSubmissionServiceSubmitDuplicatePreCheck(t *testing.T) {
	_, _, studentSvc, teacherSvc := newSubmissionFixture(t)
	assignment := publishAssignment(t, teacherSvc, "HW1")

	_, err := studentSvc.Submit(context.Background(), studentCarol, dto.SubmissionCreateRequest{AssignmentID: assignment.ID, Answer: "42"})
	require.NoError(t, err)

	_, err = studentSvc.Submit(context.Background(), studentCarol, dto.SubmissionCreateRequest{AssignmentID: assignment.ID, Answer: "43"})
	require.ErrorIs(t, err, ErrDuplicateSubmission)
}

// blindPreCheckRepo simulates the losing side of a concurrent submit: the
// pre-check sees nothing, but the insert still hits the unique index.
type blindPreCheckRepo struct {
	*memorySubmissionRepo
}

func (r *blindPreCheckRepo) GetByAssignmentAndStudent(context.Context, uint, uint) (models.Submission, error) {
	return models.Submission{}, gorm.ErrRecordNotFound
}

func TestSubmissionServiceSubmitDuplicateRace(t *testing.T) {
	assignments, submissions, _, teacherSvc := newSubmissionFixture(t)
	assignment := publishAssignment(t, teacherSvc, "HW1")

	submission := models.Submission{AssignmentID: assignment.ID, StudentID: studentCarol, Answer: "first", SubmittedAt: time.Now()}
	require.NoError(t, submissions.Create(context.Background(), &submission))

	validate := validator.New(validator.WithRequiredStructEnabled())
	racySvc := NewSubmissionService(&blindPreCheckRepo{submissions}, assignments, validate, nil, testLogger())

	_, err := racySvc.Submit(context.Background(), studentCarol, dto.SubmissionCreateRequest{AssignmentID: assignment.ID, Answer: "second"})
	require.ErrorIs(t, err, ErrDuplicateSubmission, "the storage uniqueness violation maps to the same error as the pre-check")
}

func TestSubmissionServiceListPublishedAnnotatesOwnSubmissions(t *testing.T) {
	_, _, studentSvc, teacherSvc := newSubmissionFixture(t)

	submitted := publishAssignment(t, teacherSvc, "HW1")
	open := publishAssignment(t, teacherSvc, "HW2")
	createDraft(t, teacherSvc, teacherAlice, "HW3 draft stays hidden")

	created, err := studentSvc.Submit(context.Background(), studentCarol, dto.SubmissionCreateRequest{AssignmentID: submitted.ID, Answer: "42"})
	require.NoError(t, err)

	listed, err := studentSvc.ListPublished(context.Background(), studentCarol, dto.PublishedAssignmentListRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, listed.Assignments, 2)
	require.Equal(t, int64(2), listed.Pagination.TotalItems)
	require.Equal(t, 1, listed.Pagination.TotalPages)

	byID := make(map[uint]dto.PublishedAssignmentResponse, len(listed.Assignments))
	for _, item := range listed.Assignments {
		byID[item.ID] = item
	}

	require.True(t, byID[submitted.ID].IsSubmitted)
	require.NotNil(t, byID[submitted.ID].SubmittedAt)
	require.Equal(t, created.SubmittedAt.Unix(), byID[submitted.ID].SubmittedAt.Unix())

	require.False(t, byID[open.ID].IsSubmitted)
	require.Nil(t, byID[open.ID].SubmittedAt)
}

func TestSubmissionServiceListPublishedHidesOtherStudents(t *testing.T) {
	assignments, _, studentSvc, teacherSvc := newSubmissionFixture(t)
	assignments.addUser(models.User{ID: 11, Name: "Dan", Email: "dan@example.com", Role: models.RoleStudent})
	assignment := publishAssignment(t, teacherSvc, "HW1")

	_, err := studentSvc.Submit(context.Background(), 11, dto.SubmissionCreateRequest{AssignmentID: assignment.ID, Answer: "42"})
	require.NoError(t, err)

	listed, err := studentSvc.ListPublished(context.Background(), studentCarol, dto.PublishedAssignmentListRequest{})
	require.NoError(t, err)
	require.Len(t, listed.Assignments, 1)
	require.False(t, listed.Assignments[0].IsSubmitted, "another student's submission must not mark the caller's view")
}

func TestSubmissionServiceGetMySubmission(t *testing.T) {
	_, _, studentSvc, teacherSvc := newSubmissionFixture(t)
	assignment := publishAssignment(t, teacherSvc, "HW1")

	_, err := studentSvc.GetMySubmission(context.Background(), studentCarol, assignment.ID)
	require.ErrorIs(t, err, ErrSubmissionNotFound)

	created, err := studentSvc.Submit(context.Background(), studentCarol, dto.SubmissionCreateRequest{AssignmentID: assignment.ID, Answer: "42"})
	require.NoError(t, err)

	mine, err := studentSvc.GetMySubmission(context.Background(), studentCarol, assignment.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, mine.ID)
	require.Equal(t, "HW1", mine.Assignment.Title)

	// Other students never see the caller's record.
	_, err = studentSvc.GetMySubmission(context.Background(), 11, assignment.ID)
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}
