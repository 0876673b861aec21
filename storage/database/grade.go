package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/zhurnalapp/zhurnal/core/grade"
)

// lessonErr surfaces a violation of the (student, subject, form, date)
// uniqueness as the domain sentinel.
func lessonErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return grade.ErrLessonExists
	}
	return err
}

const (
	selectLessons = `
SELECT l.id, l.student_id, l.subject_id, l.subject_type_id, l.mark, l.date,
       s.first_name || ' ' || s.last_name AS student_name,
       sub.title AS subject_title,
       st.title AS subject_type_title
FROM lessons l
JOIN students s ON s.id = l.student_id
JOIN subjects sub ON sub.id = l.subject_id
JOIN subject_types st ON st.id = l.subject_type_id`

	selectActivities = `
SELECT a.id, a.student_id, a.subject_id, a.teacher_id, a.task_id, a.task_type_id,
       a.meta, a.date, a.mark, a.task_number, a.number,
       s.first_name || ' ' || s.last_name AS student_name,
       sub.title AS subject_title,
       COALESCE(tt.title, '') AS task_type_title
FROM activities a
JOIN students s ON s.id = a.student_id
JOIN subjects sub ON sub.id = a.subject_id
LEFT JOIN task_types tt ON tt.id = a.task_type_id`
)

type gradeRepository struct {
	db *sqlx.DB
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *sqlx.DB) grade.Repository {
	return &gradeRepository{db: db}
}

// --- lessons ---

func (repo *gradeRepository) CreateLesson(ctx context.Context, l grade.Lesson) (grade.Lesson, error) {
	query := `
INSERT INTO lessons (student_id, subject_id, subject_type_id, mark, date)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	err := repo.db.QueryRowxContext(ctx, query,
		l.StudentID, l.SubjectID, l.SubjectTypeID, l.Mark, l.Date,
	).Scan(&l.ID)
	return l, lessonErr(err)
}

// CreateLessonsForGroup inserts one lesson per group member in a single
// transaction; a failure on any row rolls back the whole batch.
func (repo *gradeRepository) CreateLessonsForGroup(ctx context.Context, groupID int, proto grade.Lesson) ([]grade.Lesson, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var studentIDs []int
	if err = tx.SelectContext(ctx, &studentIDs,
		`SELECT id FROM students WHERE group_id = $1 ORDER BY id`, groupID); err != nil {
		return nil, err
	}

	ls := make([]grade.Lesson, 0, len(studentIDs))
	query := `
INSERT INTO lessons (student_id, subject_id, subject_type_id, mark, date)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	for _, sid := range studentIDs {
		l := proto
		l.StudentID = sid
		if err = tx.QueryRowxContext(ctx, query,
			l.StudentID, l.SubjectID, l.SubjectTypeID, l.Mark, l.Date,
		).Scan(&l.ID); err != nil {
			return nil, lessonErr(err)
		}
		ls = append(ls, l)
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing transaction")
	}
	return ls, nil
}

func (repo *gradeRepository) QueryAllLessons(ctx context.Context, limit, offset int) ([]grade.Lesson, error) {
	ls := make([]grade.Lesson, 0)
	err := repo.db.SelectContext(ctx, &ls,
		selectLessons+` ORDER BY l.date DESC, l.id DESC LIMIT $1 OFFSET $2`, limit, offset)
	return ls, err
}

func (repo *gradeRepository) GetLessonByID(ctx context.Context, id int) (grade.Lesson, error) {
	var l grade.Lesson
	err := repo.db.GetContext(ctx, &l, selectLessons+` WHERE l.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return grade.Lesson{}, grade.ErrLessonNotFound
	}
	return l, err
}

func (repo *gradeRepository) FilterLessonsByStudent(ctx context.Context, studentID int) ([]grade.Lesson, error) {
	ls := make([]grade.Lesson, 0)
	err := repo.db.SelectContext(ctx, &ls,
		selectLessons+` WHERE l.student_id = $1 ORDER BY l.date DESC, l.id DESC`, studentID)
	return ls, err
}

func (repo *gradeRepository) QueryLessonJournal(ctx context.Context, subjectID int, groupID, subjectTypeID *int) ([]grade.Lesson, error) {
	query := selectLessons + ` WHERE l.subject_id = $1`
	args := []interface{}{subjectID}
	if groupID != nil {
		args = append(args, *groupID)
		query += ` AND s.group_id = $2`
	}
	if subjectTypeID != nil {
		args = append(args, *subjectTypeID)
		if groupID != nil {
			query += ` AND l.subject_type_id = $3`
		} else {
			query += ` AND l.subject_type_id = $2`
		}
	}
	query += ` ORDER BY l.date, s.last_name, s.first_name`

	ls := make([]grade.Lesson, 0)
	err := repo.db.SelectContext(ctx, &ls, query, args...)
	return ls, err
}

func (repo *gradeRepository) UpdateLesson(ctx context.Context, l grade.Lesson) (grade.Lesson, error) {
	query := `UPDATE lessons SET subject_type_id = $1, mark = $2, date = $3 WHERE id = $4`
	res, err := repo.db.ExecContext(ctx, query, l.SubjectTypeID, l.Mark, l.Date, l.ID)
	if err != nil {
		return grade.Lesson{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return grade.Lesson{}, grade.ErrLessonNotFound
	}
	return l, nil
}

func (repo *gradeRepository) DeleteLessonsByTuple(ctx context.Context, subjectID, subjectTypeID int, date time.Time) (int64, error) {
	res, err := repo.db.ExecContext(ctx,
		`DELETE FROM lessons WHERE subject_id = $1 AND subject_type_id = $2 AND date = $3`,
		subjectID, subjectTypeID, date)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (repo *gradeRepository) DeleteLessonByID(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return grade.ErrLessonNotFound
	}
	return nil
}

func (repo *gradeRepository) ListLessonMarks(ctx context.Context, studentID int, subjectID *int) ([]string, error) {
	query := `SELECT mark FROM lessons WHERE student_id = $1`
	args := []interface{}{studentID}
	if subjectID != nil {
		query += ` AND subject_id = $2`
		args = append(args, *subjectID)
	}

	marks := make([]string, 0)
	err := repo.db.SelectContext(ctx, &marks, query, args...)
	return marks, err
}

// --- activities ---

func (repo *gradeRepository) CreateActivity(ctx context.Context, a grade.Activity) (grade.Activity, error) {
	query := `
INSERT INTO activities (student_id, subject_id, teacher_id, task_id, task_type_id, meta, date, mark, task_number, number)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id`
	err := repo.db.QueryRowxContext(ctx, query,
		a.StudentID, a.SubjectID, a.TeacherID, a.TaskID, a.TaskTypeID,
		a.Meta, a.Date, a.Mark, a.TaskNumber, a.Number,
	).Scan(&a.ID)
	return a, err
}

func (repo *gradeRepository) QueryAllActivities(ctx context.Context, limit, offset int) ([]grade.Activity, error) {
	as := make([]grade.Activity, 0)
	err := repo.db.SelectContext(ctx, &as,
		selectActivities+` ORDER BY a.date DESC, a.id DESC LIMIT $1 OFFSET $2`, limit, offset)
	return as, err
}

func (repo *gradeRepository) GetActivityByID(ctx context.Context, id int) (grade.Activity, error) {
	var a grade.Activity
	err := repo.db.GetContext(ctx, &a, selectActivities+` WHERE a.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return grade.Activity{}, grade.ErrActivityNotFound
	}
	return a, err
}

func (repo *gradeRepository) FilterActivitiesByStudent(ctx context.Context, studentID int) ([]grade.Activity, error) {
	as := make([]grade.Activity, 0)
	err := repo.db.SelectContext(ctx, &as,
		selectActivities+` WHERE a.student_id = $1 ORDER BY a.date DESC, a.id DESC`, studentID)
	return as, err
}

func (repo *gradeRepository) FilterActivitiesBySubject(ctx context.Context, subjectID int) ([]grade.Activity, error) {
	as := make([]grade.Activity, 0)
	err := repo.db.SelectContext(ctx, &as,
		selectActivities+` WHERE a.subject_id = $1 ORDER BY a.date DESC, a.id DESC`, subjectID)
	return as, err
}

func (repo *gradeRepository) QueryActivityJournal(ctx context.Context, teacherID int, subjectID, groupID *int) ([]grade.Activity, error) {
	query := selectActivities + ` WHERE a.teacher_id = $1`
	args := []interface{}{teacherID}
	if subjectID != nil {
		args = append(args, *subjectID)
		query += ` AND a.subject_id = $2`
	}
	if groupID != nil {
		args = append(args, *groupID)
		if subjectID != nil {
			query += ` AND s.group_id = $3`
		} else {
			query += ` AND s.group_id = $2`
		}
	}
	query += ` ORDER BY a.date, s.last_name, s.first_name`

	as := make([]grade.Activity, 0)
	err := repo.db.SelectContext(ctx, &as, query, args...)
	return as, err
}

func (repo *gradeRepository) UpdateActivity(ctx context.Context, a grade.Activity) (grade.Activity, error) {
	query := `UPDATE activities SET task_id = $1, task_type_id = $2, meta = $3, mark = $4 WHERE id = $5`
	res, err := repo.db.ExecContext(ctx, query, a.TaskID, a.TaskTypeID, a.Meta, a.Mark, a.ID)
	if err != nil {
		return grade.Activity{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return grade.Activity{}, grade.ErrActivityNotFound
	}
	return a, nil
}

func (repo *gradeRepository) DeleteActivityByID(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return grade.ErrActivityNotFound
	}
	return nil
}

func (repo *gradeRepository) DeleteActivitiesByTask(ctx context.Context, taskID int) (int64, error) {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM activities WHERE task_id = $1`, taskID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (repo *gradeRepository) ListActivityMarks(ctx context.Context, studentID int, subjectID *int) ([]string, error) {
	query := `SELECT mark FROM activities WHERE student_id = $1`
	args := []interface{}{studentID}
	if subjectID != nil {
		query += ` AND subject_id = $2`
		args = append(args, *subjectID)
	}

	marks := make([]string, 0)
	err := repo.db.SelectContext(ctx, &marks, query, args...)
	return marks, err
}
