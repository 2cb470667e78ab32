package service

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/classwork-go-api/internal/models"
	"github.com/noah-isme/classwork-go-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type memoryAssignmentRepo struct {
	assignments map[uint]models.Assignment
	users       map[uint]models.User
	nextID      uint
	clock       time.Time
}

func newMemoryAssignmentRepo() *memoryAssignmentRepo {
	return &memoryAssignmentRepo{
		assignments: make(map[uint]models.Assignment),
		users:       make(map[uint]models.User),
		nextID:      1,
		clock:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memoryAssignmentRepo) addUser(user models.User) {
	m.users[user.ID] = user
}

func (m *memoryAssignmentRepo) resolve(assignment models.Assignment) models.Assignment {
	assignment.CreatedBy = m.users[assignment.CreatedByID]
	return assignment
}

func (m *memoryAssignmentRepo) sortedByNewest(filter func(models.Assignment) bool) []models.Assignment {
	results := make([]models.Assignment, 0, len(m.assignments))
	for _, assignment := range m.assignments {
		if filter(assignment) {
			results = append(results, m.resolve(assignment))
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results
}

func paginate(items []models.Assignment, page, pageSize int) []models.Assignment {
	if pageSize <= 0 {
		return items
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []models.Assignment{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (m *memoryAssignmentRepo) ListByOwner(_ context.Context, ownerID uint, filter repository.AssignmentFilter) ([]models.Assignment, int64, error) {
	matches := m.sortedByNewest(func(a models.Assignment) bool {
		if a.CreatedByID != ownerID {
			return false
		}
		return filter.Status == "" || a.Status == filter.Status
	})
	return paginate(matches, filter.Page, filter.PageSize), int64(len(matches)), nil
}

func (m *memoryAssignmentRepo) ListPublished(_ context.Context, filter repository.AssignmentFilter) ([]models.Assignment, int64, error) {
	matches := m.sortedByNewest(func(a models.Assignment) bool {
		return a.Status == models.StatusPublished
	})
	return paginate(matches, filter.Page, filter.PageSize), int64(len(matches)), nil
}

func (m *memoryAssignmentRepo) ListOwned(_ context.Context, ownerID uint) ([]models.Assignment, error) {
	return m.sortedByNewest(func(a models.Assignment) bool {
		return a.CreatedByID == ownerID
	}), nil
}

func (m *memoryAssignmentRepo) GetByID(_ context.Context, id uint) (models.Assignment, error) {
	assignment, ok := m.assignments[id]
	if !ok {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}
	return m.resolve(assignment), nil
}

func (m *memoryAssignmentRepo) Create(_ context.Context, assignment *models.Assignment) error {
	assignment.ID = m.nextID
	m.clock = m.clock.Add(time.Second)
	assignment.CreatedAt = m.clock
	assignment.UpdatedAt = m.clock
	m.assignments[m.nextID] = *assignment
	m.nextID++
	return nil
}

func (m *memoryAssignmentRepo) Update(_ context.Context, assignment *models.Assignment) error {
	if _, ok := m.assignments[assignment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	assignment.UpdatedAt = m.clock.Add(time.Second)
	m.assignments[assignment.ID] = *assignment
	return nil
}

func (m *memoryAssignmentRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.assignments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.assignments, id)
	return nil
}

type memorySubmissionRepo struct {
	submissions map[uint]models.Submission
	assignments *memoryAssignmentRepo
	nextID      uint
}

func newMemorySubmissionRepo(assignments *memoryAssignmentRepo) *memorySubmissionRepo {
	return &memorySubmissionRepo{
		submissions: make(map[uint]models.Submission),
		assignments: assignments,
		nextID:      1,
	}
}

func (m *memorySubmissionRepo) resolve(submission models.Submission) models.Submission {
	if m.assignments != nil {
		if assignment, ok := m.assignments.assignments[submission.AssignmentID]; ok {
			submission.Assignment = assignment
		}
		submission.Student = m.assignments.users[submission.StudentID]
	}
	return submission
}

func (m *memorySubmissionRepo) ListByAssignment(_ context.Context, assignmentID uint) ([]models.Submission, error) {
	results := make([]models.Submission, 0)
	for _, submission := range m.submissions {
		if submission.AssignmentID == assignmentID {
			results = append(results, m.resolve(submission))
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].SubmittedAt.After(results[j].SubmittedAt)
	})
	return results, nil
}

func (m *memorySubmissionRepo) ListByStudentForAssignments(_ context.Context, studentID uint, assignmentIDs []uint) ([]models.Submission, error) {
	wanted := make(map[uint]struct{}, len(assignmentIDs))
	for _, id := range assignmentIDs {
		wanted[id] = struct{}{}
	}

	results := make([]models.Submission, 0)
	for _, submission := range m.submissions {
		if submission.StudentID != studentID {
			continue
		}
		if _, ok := wanted[submission.AssignmentID]; ok {
			results = append(results, submission)
		}
	}
	return results, nil
}

func (m *memorySubmissionRepo) GetByID(_ context.Context, id uint) (models.Submission, error) {
	submission, ok := m.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return m.resolve(submission), nil
}

func (m *memorySubmissionRepo) GetByAssignmentAndStudent(_ context.Context, assignmentID, studentID uint) (models.Submission, error) {
	for _, submission := range m.submissions {
		if submission.AssignmentID == assignmentID && submission.StudentID == studentID {
			return m.resolve(submission), nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (m *memorySubmissionRepo) CountByAssignments(_ context.Context, assignmentIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(assignmentIDs))
	wanted := make(map[uint]struct{}, len(assignmentIDs))
	for _, id := range assignmentIDs {
		wanted[id] = struct{}{}
	}
	for _, submission := range m.submissions {
		if _, ok := wanted[submission.AssignmentID]; ok {
			counts[submission.AssignmentID]++
		}
	}
	return counts, nil
}

// Create mirrors the composite unique index enforced by the real storage.
func (m *memorySubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	for _, existing := range m.submissions {
		if existing.AssignmentID == submission.AssignmentID && existing.StudentID == submission.StudentID {
			return gorm.ErrDuplicatedKey
		}
	}
	submission.ID = m.nextID
	m.submissions[m.nextID] = *submission
	m.nextID++
	return nil
}

func (m *memorySubmissionRepo) Update(_ context.Context, submission *models.Submission) error {
	if _, ok := m.submissions[submission.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.submissions[submission.ID] = *submission
	return nil
}
