package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/zhurnalapp/zhurnal/core/teacher"
)

const selectTeachers = `
SELECT t.id, t.login, t.password_hash, t.last_name, t.first_name, t.middle_name,
       t.vk_id, t.tg_id, t.vyatsu_mail, t.created_at, t.updated_at
FROM teachers t`

type teacherRepository struct {
	db *sqlx.DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *sqlx.DB) teacher.Repository {
	return &teacherRepository{db: db}
}

func (repo *teacherRepository) CheckLoginUniqueness(ctx context.Context, login string, excl ...teacher.Teacher) (bool, error) {
	query := `SELECT COUNT(*) FROM teachers WHERE login = ?`
	args := []interface{}{login}
	if len(excl) > 0 {
		ids := make([]int, 0, len(excl))
		for _, t := range excl {
			ids = append(ids, t.ID)
		}
		var err error
		query, args, err = sqlx.In(query+` AND id NOT IN (?)`, login, ids)
		if err != nil {
			return false, err
		}
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, repo.db.Rebind(query), args...); err != nil {
		return false, err
	}
	return count == 0, nil
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	query := `
INSERT INTO teachers (login, password_hash, last_name, first_name, middle_name, vk_id, tg_id, vyatsu_mail)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at, updated_at`
	err := repo.db.QueryRowxContext(ctx, query,
		t.Login, t.PasswordHash, t.LastName, t.FirstName, t.MiddleName,
		t.VkID, t.TgID, t.VyatsuMail,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (repo *teacherRepository) QueryAllTeachers(ctx context.Context) ([]teacher.Teacher, error) {
	ts := make([]teacher.Teacher, 0)
	err := repo.db.SelectContext(ctx, &ts, selectTeachers+` ORDER BY t.last_name, t.first_name`)
	return ts, err
}

func (repo *teacherRepository) GetTeacherByID(ctx context.Context, id int) (teacher.Teacher, error) {
	var t teacher.Teacher
	err := repo.db.GetContext(ctx, &t, selectTeachers+` WHERE t.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	return t, err
}

func (repo *teacherRepository) GetTeacherByLogin(ctx context.Context, login string) (teacher.Teacher, error) {
	var t teacher.Teacher
	err := repo.db.GetContext(ctx, &t, selectTeachers+` WHERE t.login = $1`, login)
	if errors.Is(err, sql.ErrNoRows) {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	return t, err
}

func (repo *teacherRepository) QueryAssignments(ctx context.Context, teacherID int) ([]teacher.Assignment, error) {
	query := `
SELECT ts.subject_id, sub.title AS subject_title,
       ts.group_id, g.title AS group_title, g.number AS group_number
FROM teacher_subjects ts
JOIN subjects sub ON sub.id = ts.subject_id
JOIN groups g ON g.id = ts.group_id
WHERE ts.teacher_id = $1
ORDER BY sub.title, g.title`
	as := make([]teacher.Assignment, 0)
	err := repo.db.SelectContext(ctx, &as, query, teacherID)
	return as, err
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	query := `
UPDATE teachers
SET login = $1, password_hash = $2, last_name = $3, first_name = $4, middle_name = $5,
    vk_id = $6, tg_id = $7, vyatsu_mail = $8, updated_at = now()
WHERE id = $9
RETURNING updated_at`
	err := repo.db.QueryRowxContext(ctx, query,
		t.Login, t.PasswordHash, t.LastName, t.FirstName, t.MiddleName,
		t.VkID, t.TgID, t.VyatsuMail, t.ID,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	return t, err
}

func (repo *teacherRepository) DeleteTeacherByID(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return teacher.ErrNotFound
	}
	return nil
}
