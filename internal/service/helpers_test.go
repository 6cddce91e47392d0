package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/advisio/advisio-api/internal/dto"
	"github.com/advisio/advisio-api/internal/models"
	"github.com/advisio/advisio-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func jsonSet(ids ...string) datatypes.JSON {
	data, _ := json.Marshal(ids)
	return datatypes.JSON(data)
}

func breakdownJSON(entries []models.BreakdownEntry) datatypes.JSON {
	data, _ := json.Marshal(entries)
	return datatypes.JSON(data)
}

type stubSubmissionRepo struct {
	submissions []models.Submission
}

func (s *stubSubmissionRepo) List(ctx context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	result := make([]models.Submission, 0, len(s.submissions))
	for _, submission := range s.submissions {
		if filter.TeacherID != nil && submission.TeacherID != *filter.TeacherID {
			continue
		}
		if filter.StudentID != nil && submission.StudentID != *filter.StudentID {
			continue
		}
		if filter.TaskID != nil && submission.TaskID != *filter.TaskID {
			continue
		}
		if filter.ClassName != nil && submission.ClassName != *filter.ClassName {
			continue
		}
		if filter.AssignmentID != nil && submission.AssignmentID != *filter.AssignmentID {
			continue
		}
		result = append(result, submission)
	}
	return result, nil
}

func (s *stubSubmissionRepo) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	for _, submission := range s.submissions {
		if submission.ID == id {
			return submission, nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (s *stubSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	submission.ID = uint(len(s.submissions) + 1)
	s.submissions = append(s.submissions, *submission)
	return nil
}

type stubGroupRepo struct {
	groups    []models.StudentGroup
	createErr map[string]error
	deleteErr map[string]error
}

func (s *stubGroupRepo) List(ctx context.Context, filter repository.GroupFilter) ([]models.StudentGroup, error) {
	result := make([]models.StudentGroup, 0, len(s.groups))
	for _, group := range s.groups {
		if filter.TeacherID != nil && group.TeacherID != *filter.TeacherID {
			continue
		}
		if filter.ClassName != nil && group.ClassName != *filter.ClassName {
			continue
		}
		if filter.StudentID != nil && !group.HasMember(*filter.StudentID) {
			continue
		}
		result = append(result, group)
	}
	return result, nil
}

func (s *stubGroupRepo) GetByID(ctx context.Context, id string) (models.StudentGroup, error) {
	for _, group := range s.groups {
		if group.ID == id {
			return group, nil
		}
	}
	return models.StudentGroup{}, gorm.ErrRecordNotFound
}

func (s *stubGroupRepo) Create(ctx context.Context, group *models.StudentGroup) error {
	if err := s.createErr[group.Name]; err != nil {
		return err
	}
	s.groups = append(s.groups, *group)
	return nil
}

func (s *stubGroupRepo) Update(ctx context.Context, group *models.StudentGroup) error {
	for i := range s.groups {
		if s.groups[i].ID == group.ID {
			s.groups[i] = *group
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubGroupRepo) Delete(ctx context.Context, id string) error {
	if err := s.deleteErr[id]; err != nil {
		return err
	}
	for i := range s.groups {
		if s.groups[i].ID == id {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubStudentRepo struct {
	students  []models.Student
	updateErr map[string]error
	moves     map[string]string
}

func (s *stubStudentRepo) List(ctx context.Context, filter repository.StudentFilter) ([]models.Student, error) {
	result := make([]models.Student, 0, len(s.students))
	for _, student := range s.students {
		if filter.Role != "" && student.Role != filter.Role {
			continue
		}
		if filter.ClassName != nil && student.ClassName != *filter.ClassName {
			continue
		}
		result = append(result, student)
	}
	return result, nil
}

func (s *stubStudentRepo) GetByID(ctx context.Context, id string) (models.Student, error) {
	for _, student := range s.students {
		if student.ID == id {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (s *stubStudentRepo) UpdateClass(ctx context.Context, studentID, className string) error {
	if err := s.updateErr[studentID]; err != nil {
		return err
	}
	for i := range s.students {
		if s.students[i].ID == studentID {
			s.students[i].ClassName = className
			if s.moves == nil {
				s.moves = make(map[string]string)
			}
			s.moves[studentID] = className
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubAssignmentRepo struct {
	assignments []models.TaskAssignment
}

func (s *stubAssignmentRepo) List(ctx context.Context, filter repository.AssignmentFilter) ([]models.TaskAssignment, error) {
	result := make([]models.TaskAssignment, 0, len(s.assignments))
	for _, assignment := range s.assignments {
		if filter.TeacherID != nil && assignment.TeacherID != *filter.TeacherID {
			continue
		}
		if filter.ClassName != nil && assignment.ClassName != *filter.ClassName {
			continue
		}
		if filter.TaskID != nil && assignment.TaskID != *filter.TaskID {
			continue
		}
		result = append(result, assignment)
	}
	return result, nil
}

func (s *stubAssignmentRepo) GetByID(ctx context.Context, id string) (models.TaskAssignment, error) {
	for _, assignment := range s.assignments {
		if assignment.ID == id {
			return assignment, nil
		}
	}
	return models.TaskAssignment{}, gorm.ErrRecordNotFound
}

func (s *stubAssignmentRepo) Create(ctx context.Context, assignment *models.TaskAssignment) error {
	s.assignments = append(s.assignments, *assignment)
	return nil
}

type stubTaskRepo struct {
	tasks []models.Task
}

func (s *stubTaskRepo) List(ctx context.Context, filter repository.TaskFilter) ([]models.Task, error) {
	result := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if filter.TeacherID != nil && task.TeacherID != *filter.TeacherID {
			continue
		}
		result = append(result, task)
	}
	return result, nil
}

func (s *stubTaskRepo) GetByID(ctx context.Context, id uint) (models.Task, error) {
	for _, task := range s.tasks {
		if task.ID == id {
			return task, nil
		}
	}
	return models.Task{}, gorm.ErrRecordNotFound
}

func (s *stubTaskRepo) Create(ctx context.Context, task *models.Task) error {
	task.ID = uint(len(s.tasks) + 1)
	s.tasks = append(s.tasks, *task)
	return nil
}

func (s *stubTaskRepo) Update(ctx context.Context, task *models.Task) error {
	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			s.tasks[i] = *task
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubTaskRepo) Delete(ctx context.Context, id uint) error {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubActivityRecorder struct {
	entries []ActivityEntry
}

func (s *stubActivityRecorder) Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	s.entries = append(s.entries, entry)
	return dto.ActivityResponse{}, nil
}

type captureEvents struct {
	subjects []string
}

func (c *captureEvents) Publish(subject string, payload interface{}) {
	c.subjects = append(c.subjects, subject)
}

func submittedAt(base time.Time, hoursAgo int) time.Time {
	return base.Add(-time.Duration(hoursAgo) * time.Hour)
}
