package grade

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrLessonExists     = errors.New("a lesson for this student, subject, form and date already exists")
	ErrActivityNotFound = errors.New("activity not found")
)

// Repository defines the interface needed to persist and query lessons and
// activities.
type Repository interface {
	// lessons
	CreateLesson(ctx context.Context, l Lesson) (Lesson, error)
	CreateLessonsForGroup(ctx context.Context, groupID int, proto Lesson) ([]Lesson, error)
	QueryAllLessons(ctx context.Context, limit, offset int) ([]Lesson, error)
	GetLessonByID(ctx context.Context, id int) (Lesson, error)
	FilterLessonsByStudent(ctx context.Context, studentID int) ([]Lesson, error)
	QueryLessonJournal(ctx context.Context, subjectID int, groupID, subjectTypeID *int) ([]Lesson, error)
	UpdateLesson(ctx context.Context, l Lesson) (Lesson, error)
	DeleteLessonsByTuple(ctx context.Context, subjectID, subjectTypeID int, date time.Time) (int64, error)
	DeleteLessonByID(ctx context.Context, id int) error
	ListLessonMarks(ctx context.Context, studentID int, subjectID *int) ([]string, error)

	// activities
	CreateActivity(ctx context.Context, a Activity) (Activity, error)
	QueryAllActivities(ctx context.Context, limit, offset int) ([]Activity, error)
	GetActivityByID(ctx context.Context, id int) (Activity, error)
	FilterActivitiesByStudent(ctx context.Context, studentID int) ([]Activity, error)
	FilterActivitiesBySubject(ctx context.Context, subjectID int) ([]Activity, error)
	QueryActivityJournal(ctx context.Context, teacherID int, subjectID, groupID *int) ([]Activity, error)
	UpdateActivity(ctx context.Context, a Activity) (Activity, error)
	DeleteActivityByID(ctx context.Context, id int) error
	DeleteActivitiesByTask(ctx context.Context, taskID int) (int64, error)
	ListActivityMarks(ctx context.Context, studentID int, subjectID *int) ([]string, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// --- lessons ---

func (svc *Service) CreateLesson(ctx context.Context, nl NewLesson) (Lesson, error) {
	l, err := svc.repo.CreateLesson(ctx, nl.Lesson())
	return l, errors.Wrap(err, "creating lesson")
}

// CreateBulkForGroup records one journal column: a lesson per group member
// with the same subject, form, date and mark. The batch is one transaction;
// either every row lands or none does.
func (svc *Service) CreateBulkForGroup(ctx context.Context, bl BulkLessons) ([]Lesson, error) {
	date, _ := time.Parse(DateFormat, bl.Date) // validated
	proto := Lesson{
		SubjectID:     bl.SubjectID,
		SubjectTypeID: bl.SubjectTypeID,
		Mark:          bl.Mark,
		Date:          date,
	}
	ls, err := svc.repo.CreateLessonsForGroup(ctx, bl.GroupID, proto)
	return ls, errors.Wrap(err, "creating lessons for group")
}

func (svc *Service) QueryAllLessons(ctx context.Context, limit, offset int) ([]Lesson, error) {
	ls, err := svc.repo.QueryAllLessons(ctx, limit, offset)
	return ls, errors.Wrap(err, "querying lessons")
}

func (svc *Service) GetLessonByID(ctx context.Context, id int) (Lesson, error) {
	return svc.repo.GetLessonByID(ctx, id)
}

func (svc *Service) FilterLessonsByStudent(ctx context.Context, studentID int) ([]Lesson, error) {
	ls, err := svc.repo.FilterLessonsByStudent(ctx, studentID)
	return ls, errors.Wrap(err, "filtering lessons by student")
}

// LessonJournal lists a subject's lessons, optionally narrowed to one group
// and one form of teaching.
func (svc *Service) LessonJournal(ctx context.Context, subjectID int, groupID, subjectTypeID *int) ([]Lesson, error) {
	ls, err := svc.repo.QueryLessonJournal(ctx, subjectID, groupID, subjectTypeID)
	return ls, errors.Wrap(err, "querying lesson journal")
}

func (svc *Service) UpdateLesson(ctx context.Context, l Lesson, ul UpdateLesson) (Lesson, error) {
	l, err := svc.repo.UpdateLesson(ctx, ul.Apply(l))
	return l, errors.Wrap(err, "updating lesson")
}

// ClearJournalColumn deletes every lesson matching (subject, form, date)
// and reports how many rows went.
func (svc *Service) ClearJournalColumn(ctx context.Context, subjectID, subjectTypeID int, date time.Time) (int64, error) {
	n, err := svc.repo.DeleteLessonsByTuple(ctx, subjectID, subjectTypeID, date)
	return n, errors.Wrap(err, "deleting journal column")
}

func (svc *Service) DeleteLesson(ctx context.Context, id int) error {
	return errors.Wrap(svc.repo.DeleteLessonByID(ctx, id), "deleting lesson")
}

// --- activities ---

func (svc *Service) CreateActivity(ctx context.Context, na NewActivity) (Activity, error) {
	a, err := svc.repo.CreateActivity(ctx, na.Activity())
	return a, errors.Wrap(err, "creating activity")
}

func (svc *Service) QueryAllActivities(ctx context.Context, limit, offset int) ([]Activity, error) {
	as, err := svc.repo.QueryAllActivities(ctx, limit, offset)
	return as, errors.Wrap(err, "querying activities")
}

func (svc *Service) GetActivityByID(ctx context.Context, id int) (Activity, error) {
	return svc.repo.GetActivityByID(ctx, id)
}

func (svc *Service) FilterActivitiesByStudent(ctx context.Context, studentID int) ([]Activity, error) {
	as, err := svc.repo.FilterActivitiesByStudent(ctx, studentID)
	return as, errors.Wrap(err, "filtering activities by student")
}

func (svc *Service) FilterActivitiesBySubject(ctx context.Context, subjectID int) ([]Activity, error) {
	as, err := svc.repo.FilterActivitiesBySubject(ctx, subjectID)
	return as, errors.Wrap(err, "filtering activities by subject")
}

// ActivityJournal lists a teacher's graded activities, optionally narrowed
// to one subject and one group.
func (svc *Service) ActivityJournal(ctx context.Context, teacherID int, subjectID, groupID *int) ([]Activity, error) {
	as, err := svc.repo.QueryActivityJournal(ctx, teacherID, subjectID, groupID)
	return as, errors.Wrap(err, "querying activity journal")
}

func (svc *Service) UpdateActivity(ctx context.Context, a Activity, ua UpdateActivity) (Activity, error) {
	a, err := svc.repo.UpdateActivity(ctx, ua.Apply(a))
	return a, errors.Wrap(err, "updating activity")
}

func (svc *Service) DeleteActivity(ctx context.Context, id int) error {
	return errors.Wrap(svc.repo.DeleteActivityByID(ctx, id), "deleting activity")
}

// DeleteLab removes every activity graded against one task and reports how
// many rows went.
func (svc *Service) DeleteLab(ctx context.Context, taskID int) (int64, error) {
	n, err := svc.repo.DeleteActivitiesByTask(ctx, taskID)
	return n, errors.Wrap(err, "deleting activities by task")
}

// --- statistics ---

// AttendanceStats fetches a student's lesson marks, optionally for one
// subject, and aggregates them.
func (svc *Service) AttendanceStats(ctx context.Context, studentID int, subjectID *int) (AttendanceStats, error) {
	marks, err := svc.repo.ListLessonMarks(ctx, studentID, subjectID)
	if err != nil {
		return AttendanceStats{}, errors.Wrap(err, "listing lesson marks")
	}
	return ComputeAttendance(marks), nil
}

// StudentStats fetches a student's activity marks, optionally for one
// subject, and aggregates them.
func (svc *Service) StudentStats(ctx context.Context, studentID int, subjectID *int) (MarkStats, error) {
	marks, err := svc.repo.ListActivityMarks(ctx, studentID, subjectID)
	if err != nil {
		return MarkStats{}, errors.Wrap(err, "listing activity marks")
	}
	return ComputeMarkStats(marks), nil
}
