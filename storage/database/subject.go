package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/zhurnalapp/zhurnal/core/subject"
)

type subjectRepository struct {
	db *sqlx.DB
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *sqlx.DB) subject.Repository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) CreateSubject(ctx context.Context, s subject.Subject) (subject.Subject, error) {
	err := repo.db.QueryRowxContext(ctx, `INSERT INTO subjects (title) VALUES ($1) RETURNING id`, s.Title).Scan(&s.ID)
	return s, err
}

func (repo *subjectRepository) QueryAllSubjects(ctx context.Context) ([]subject.Subject, error) {
	subs := make([]subject.Subject, 0)
	err := repo.db.SelectContext(ctx, &subs, `SELECT id, title FROM subjects ORDER BY title`)
	return subs, err
}

func (repo *subjectRepository) GetSubjectByID(ctx context.Context, id int) (subject.Subject, error) {
	var s subject.Subject
	err := repo.db.GetContext(ctx, &s, `SELECT id, title FROM subjects WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return subject.Subject{}, subject.ErrNotFound
	}
	return s, err
}

func (repo *subjectRepository) QuerySubjectTeachers(ctx context.Context, subjectID int) ([]subject.SubjectTeacher, error) {
	query := `
SELECT ts.teacher_id, t.first_name || ' ' || t.last_name AS teacher_name,
       ts.group_id, g.title AS group_title
FROM teacher_subjects ts
JOIN teachers t ON t.id = ts.teacher_id
JOIN groups g ON g.id = ts.group_id
WHERE ts.subject_id = $1
ORDER BY t.last_name, g.title`
	ts := make([]subject.SubjectTeacher, 0)
	err := repo.db.SelectContext(ctx, &ts, query, subjectID)
	return ts, err
}

func (repo *subjectRepository) QuerySubjectGroups(ctx context.Context, subjectID int) ([]subject.SubjectGroup, error) {
	query := `
SELECT DISTINCT ts.group_id, g.title AS group_title, g.number AS group_number
FROM teacher_subjects ts
JOIN groups g ON g.id = ts.group_id
WHERE ts.subject_id = $1
ORDER BY g.title`
	gs := make([]subject.SubjectGroup, 0)
	err := repo.db.SelectContext(ctx, &gs, query, subjectID)
	return gs, err
}

func (repo *subjectRepository) UpdateSubject(ctx context.Context, s subject.Subject) (subject.Subject, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE subjects SET title = $1 WHERE id = $2`, s.Title, s.ID)
	if err != nil {
		return subject.Subject{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return subject.Subject{}, subject.ErrNotFound
	}
	return s, nil
}

func (repo *subjectRepository) DeleteSubjectByID(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return subject.ErrNotFound
	}
	return nil
}
