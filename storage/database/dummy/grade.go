package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/zhurnalapp/zhurnal/core/grade"
)

type gradeRepository struct {
	db *DB
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *DB) grade.Repository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) fillLesson(l grade.Lesson) grade.Lesson {
	repo.db.student.RLock()
	if s, ok := repo.db.student.table[l.StudentID]; ok {
		l.StudentName = s.Name()
	}
	repo.db.student.RUnlock()
	repo.db.subject.RLock()
	if sub, ok := repo.db.subject.table[l.SubjectID]; ok {
		l.SubjectTitle = sub.Title
	}
	l.SubjectTypeTitle = repo.db.subject.subjectTypes[l.SubjectTypeID]
	repo.db.subject.RUnlock()
	return l
}

func (repo *gradeRepository) fillActivity(a grade.Activity) grade.Activity {
	repo.db.student.RLock()
	if s, ok := repo.db.student.table[a.StudentID]; ok {
		a.StudentName = s.Name()
	}
	repo.db.student.RUnlock()
	repo.db.subject.RLock()
	if sub, ok := repo.db.subject.table[a.SubjectID]; ok {
		a.SubjectTitle = sub.Title
	}
	if a.TaskTypeID != nil {
		a.TaskTypeTitle = repo.db.subject.taskTypes[*a.TaskTypeID]
	}
	repo.db.subject.RUnlock()
	return a
}

// sameDay compares lesson dates at day granularity.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// insertLesson enforces the (student, subject, form, date) uniqueness and
// the test failure hook. Caller holds the write lock.
func (repo *gradeRepository) insertLesson(l grade.Lesson) (grade.Lesson, error) {
	if repo.db.FailLessonCreate != nil {
		if err := repo.db.FailLessonCreate(l); err != nil {
			return grade.Lesson{}, err
		}
	}
	for _, existing := range repo.db.grade.lessons {
		if existing.StudentID == l.StudentID &&
			existing.SubjectID == l.SubjectID &&
			existing.SubjectTypeID == l.SubjectTypeID &&
			sameDay(existing.Date, l.Date) {
			return grade.Lesson{}, grade.ErrLessonExists
		}
	}
	repo.db.grade.lessonPK++
	l.ID = repo.db.grade.lessonPK
	repo.db.grade.lessons[l.ID] = &l
	return l, nil
}

// --- lessons ---

func (repo *gradeRepository) CreateLesson(ctx context.Context, l grade.Lesson) (grade.Lesson, error) {
	repo.db.grade.Lock()
	defer repo.db.grade.Unlock()
	return repo.insertLesson(l)
}

// CreateLessonsForGroup stages every row first; a failure on any of them
// leaves the table untouched.
func (repo *gradeRepository) CreateLessonsForGroup(ctx context.Context, groupID int, proto grade.Lesson) ([]grade.Lesson, error) {
	repo.db.student.RLock()
	var studentIDs []int
	for _, s := range repo.db.student.table {
		if s.GroupID == groupID {
			studentIDs = append(studentIDs, s.ID)
		}
	}
	repo.db.student.RUnlock()
	sort.Ints(studentIDs)

	repo.db.grade.Lock()
	defer repo.db.grade.Unlock()

	inserted := make([]int, 0, len(studentIDs))
	ls := make([]grade.Lesson, 0, len(studentIDs))
	for _, sid := range studentIDs {
		l := proto
		l.StudentID = sid
		l, err := repo.insertLesson(l)
		if err != nil {
			for _, id := range inserted { // rollback
				delete(repo.db.grade.lessons, id)
			}
			return nil, err
		}
		inserted = append(inserted, l.ID)
		ls = append(ls, l)
	}
	return ls, nil
}

func (repo *gradeRepository) queryLessons() []grade.Lesson {
	ls := make([]grade.Lesson, 0, len(repo.db.grade.lessons))
	for _, l := range repo.db.grade.lessons {
		ls = append(ls, *l)
	}
	sort.Slice(ls, func(i, j int) bool { return ls[i].ID < ls[j].ID })
	return ls
}

func (repo *gradeRepository) QueryAllLessons(ctx context.Context, limit, offset int) ([]grade.Lesson, error) {
	repo.db.grade.RLock()
	ls := repo.queryLessons()
	repo.db.grade.RUnlock()

	if offset >= len(ls) {
		return []grade.Lesson{}, nil
	}
	ls = ls[offset:]
	if limit < len(ls) {
		ls = ls[:limit]
	}
	for i := range ls {
		ls[i] = repo.fillLesson(ls[i])
	}
	return ls, nil
}

func (repo *gradeRepository) GetLessonByID(ctx context.Context, id int) (grade.Lesson, error) {
	repo.db.grade.RLock()
	l, ok := repo.db.grade.lessons[id]
	repo.db.grade.RUnlock()
	if !ok {
		return grade.Lesson{}, grade.ErrLessonNotFound
	}
	return repo.fillLesson(*l), nil
}

func (repo *gradeRepository) FilterLessonsByStudent(ctx context.Context, studentID int) ([]grade.Lesson, error) {
	repo.db.grade.RLock()
	all := repo.queryLessons()
	repo.db.grade.RUnlock()

	ls := make([]grade.Lesson, 0)
	for _, l := range all {
		if l.StudentID == studentID {
			ls = append(ls, repo.fillLesson(l))
		}
	}
	return ls, nil
}

func (repo *gradeRepository) QueryLessonJournal(ctx context.Context, subjectID int, groupID, subjectTypeID *int) ([]grade.Lesson, error) {
	var inGroup map[int]bool
	if groupID != nil {
		inGroup = make(map[int]bool)
		repo.db.student.RLock()
		for _, s := range repo.db.student.table {
			if s.GroupID == *groupID {
				inGroup[s.ID] = true
			}
		}
		repo.db.student.RUnlock()
	}

	repo.db.grade.RLock()
	all := repo.queryLessons()
	repo.db.grade.RUnlock()

	ls := make([]grade.Lesson, 0)
	for _, l := range all {
		if l.SubjectID != subjectID {
			continue
		}
		if inGroup != nil && !inGroup[l.StudentID] {
			continue
		}
		if subjectTypeID != nil && l.SubjectTypeID != *subjectTypeID {
			continue
		}
		ls = append(ls, repo.fillLesson(l))
	}
	return ls, nil
}

func (repo *gradeRepository) UpdateLesson(ctx context.Context, l grade.Lesson) (grade.Lesson, error) {
	repo.db.grade.Lock()
	defer repo.db.grade.Unlock()

	if _, ok := repo.db.grade.lessons[l.ID]; !ok {
		return grade.Lesson{}, grade.ErrLessonNotFound
	}
	repo.db.grade.lessons[l.ID] = &l
	return l, nil
}

func (repo *gradeRepository) DeleteLessonsByTuple(ctx context.Context, subjectID, subjectTypeID int, date time.Time) (int64, error) {
	repo.db.grade.Lock()
	defer repo.db.grade.Unlock()

	var n int64
	for id, l := range repo.db.grade.lessons {
		if l.SubjectID == subjectID && l.SubjectTypeID == subjectTypeID && sameDay(l.Date, date) {
			delete(repo.db.grade.lessons, id)
			n++
		}
	}
	return n, nil
}

func (repo *gradeRepository) DeleteLessonByID(ctx context.Context, id int) error {
	repo.db.grade.Lock()
	defer repo.db.grade.Unlock()

	if _, ok := repo.db.grade.lessons[id]; !ok {
		return grade.ErrLessonNotFound
	}
	delete(repo.db.grade.lessons, id)
	return nil
}

func (repo *gradeRepository) ListLessonMarks(ctx context.Context, studentID int, subjectID *int) ([]string, error) {
	repo.db.grade.RLock()
	defer repo.db.grade.RUnlock()

	marks := make([]string, 0)
	for _, l := range repo.queryLessons() {
		if l.StudentID != studentID {
			continue
		}
		if subjectID != nil && l.SubjectID != *subjectID {
			continue
		}
		marks = append(marks, l.Mark)
	}
	return marks, nil
}

// --- activities ---

func (repo *gradeRepository) CreateActivity(ctx context.Context, a grade.Activity) (grade.Activity, error) {
	repo.db.grade.Lock()
	defer repo.db.grade.Unlock()

	repo.db.grade.activityPK++
	a.ID = repo.db.grade.activityPK
	repo.db.grade.activities[a.ID] = &a
	return a, nil
}

func (repo *gradeRepository) queryActivities() []grade.Activity {
	as := make([]grade.Activity, 0, len(repo.db.grade.activities))
	for _, a := range repo.db.grade.activities {
		as = append(as, *a)
	}
	sort.Slice(as, func(i, j int) bool { return as[i].ID < as[j].ID })
	return as
}

func (repo *gradeRepository) QueryAllActivities(ctx context.Context, limit, offset int) ([]grade.Activity, error) {
	repo.db.grade.RLock()
	as := repo.queryActivities()
	repo.db.grade.RUnlock()

	if offset >= len(as) {
		return []grade.Activity{}, nil
	}
	as = as[offset:]
	if limit < len(as) {
		as = as[:limit]
	}
	for i := range as {
		as[i] = repo.fillActivity(as[i])
	}
	return as, nil
}

func (repo *gradeRepository) GetActivityByID(ctx context.Context, id int) (grade.Activity, error) {
	repo.db.grade.RLock()
	a, ok := repo.db.grade.activities[id]
	repo.db.grade.RUnlock()
	if !ok {
		return grade.Activity{}, grade.ErrActivityNotFound
	}
	return repo.fillActivity(*a), nil
}

func (repo *gradeRepository) FilterActivitiesByStudent(ctx context.Context, studentID int) ([]grade.Activity, error) {
	repo.db.grade.RLock()
	all := repo.queryActivities()
	repo.db.grade.RUnlock()

	as := make([]grade.Activity, 0)
	for _, a := range all {
		if a.StudentID == studentID {
			as = append(as, repo.fillActivity(a))
		}
	}
	return as, nil
}

func (repo *gradeRepository) FilterActivitiesBySubject(ctx context.Context, subjectID int) ([]grade.Activity, error) {
	repo.db.grade.RLock()
	all := repo.queryActivities()
	repo.db.grade.RUnlock()

	as := make([]grade.Activity, 0)
	for _, a := range all {
		if a.SubjectID == subjectID {
			as = append(as, repo.fillActivity(a))
		}
	}
	return as, nil
}

func (repo *gradeRepository) QueryActivityJournal(ctx context.Context, teacherID int, subjectID, groupID *int) ([]grade.Activity, error) {
	var inGroup map[int]bool
	if groupID != nil {
		inGroup = make(map[int]bool)
		repo.db.student.RLock()
		for _, s := range repo.db.student.table {
			if s.GroupID == *groupID {
				inGroup[s.ID] = true
			}
		}
		repo.db.student.RUnlock()
	}

	repo.db.grade.RLock()
	all := repo.queryActivities()
	repo.db.grade.RUnlock()

	as := make([]grade.Activity, 0)
	for _, a := range all {
		if a.TeacherID != teacherID {
			continue
		}
		if subjectID != nil && a.SubjectID != *subjectID {
			continue
		}
		if inGroup != nil && !inGroup[a.StudentID] {
			continue
		}
		as = append(as, repo.fillActivity(a))
	}
	return as, nil
}

func (repo *gradeRepository) UpdateActivity(ctx context.Context, a grade.Activity) (grade.Activity, error) {
	repo.db.grade.Lock()
	defer repo.db.grade.Unlock()

	if _, ok := repo.db.grade.activities[a.ID]; !ok {
		return grade.Activity{}, grade.ErrActivityNotFound
	}
	repo.db.grade.activities[a.ID] = &a
	return a, nil
}

func (repo *gradeRepository) DeleteActivityByID(ctx context.Context, id int) error {
	repo.db.grade.Lock()
	defer repo.db.grade.Unlock()

	if _, ok := repo.db.grade.activities[id]; !ok {
		return grade.ErrActivityNotFound
	}
	delete(repo.db.grade.activities, id)
	return nil
}

func (repo *gradeRepository) DeleteActivitiesByTask(ctx context.Context, taskID int) (int64, error) {
	repo.db.grade.Lock()
	defer repo.db.grade.Unlock()

	var n int64
	for id, a := range repo.db.grade.activities {
		if a.TaskID != nil && *a.TaskID == taskID {
			delete(repo.db.grade.activities, id)
			n++
		}
	}
	return n, nil
}

func (repo *gradeRepository) ListActivityMarks(ctx context.Context, studentID int, subjectID *int) ([]string, error) {
	repo.db.grade.RLock()
	defer repo.db.grade.RUnlock()

	marks := make([]string, 0)
	for _, a := range repo.queryActivities() {
		if a.StudentID != studentID {
			continue
		}
		if subjectID != nil && a.SubjectID != *subjectID {
			continue
		}
		marks = append(marks, a.Mark)
	}
	return marks, nil
}
