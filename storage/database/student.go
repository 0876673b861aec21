package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/zhurnalapp/zhurnal/core/student"
)

const selectStudents = `
SELECT s.id, s.login, s.password_hash, s.last_name, s.first_name, s.middle_name,
       s.group_id, s.vk_id, s.tg_id, s.vyatsu_mail, s.created_at, s.updated_at,
       g.title AS group_title, g.number AS group_number
FROM students s
JOIN groups g ON g.id = s.group_id`

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CheckLoginUniqueness(ctx context.Context, login string, excl ...student.Student) (bool, error) {
	query := `SELECT COUNT(*) FROM students WHERE login = ?`
	args := []interface{}{login}
	if len(excl) > 0 {
		ids := make([]int, 0, len(excl))
		for _, s := range excl {
			ids = append(ids, s.ID)
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

func (repo *studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	query := `
INSERT INTO students (login, password_hash, last_name, first_name, middle_name, group_id, vk_id, tg_id, vyatsu_mail)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at, updated_at`
	err := repo.db.QueryRowxContext(ctx, query,
		s.Login, s.PasswordHash, s.LastName, s.FirstName, s.MiddleName,
		s.GroupID, s.VkID, s.TgID, s.VyatsuMail,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	ss := make([]student.Student, 0)
	err := repo.db.SelectContext(ctx, &ss, selectStudents+` ORDER BY s.last_name, s.first_name`)
	return ss, err
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id int) (student.Student, error) {
	var s student.Student
	err := repo.db.GetContext(ctx, &s, selectStudents+` WHERE s.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return student.Student{}, student.ErrNotFound
	}
	return s, err
}

func (repo *studentRepository) GetStudentByLogin(ctx context.Context, login string) (student.Student, error) {
	var s student.Student
	err := repo.db.GetContext(ctx, &s, selectStudents+` WHERE s.login = $1`, login)
	if errors.Is(err, sql.ErrNoRows) {
		return student.Student{}, student.ErrNotFound
	}
	return s, err
}

func (repo *studentRepository) FilterStudentsByGroup(ctx context.Context, groupID int) ([]student.Student, error) {
	ss := make([]student.Student, 0)
	err := repo.db.SelectContext(ctx, &ss, selectStudents+` WHERE s.group_id = $1 ORDER BY s.last_name, s.first_name`, groupID)
	return ss, err
}

func (repo *studentRepository) FilterStudentsBySubject(ctx context.Context, subjectID int, groupID *int) ([]student.Student, error) {
	query := selectStudents + `
WHERE s.group_id IN (SELECT ts.group_id FROM teacher_subjects ts WHERE ts.subject_id = $1)`
	args := []interface{}{subjectID}
	if groupID != nil {
		query += ` AND s.group_id = $2`
		args = append(args, *groupID)
	}
	query += ` ORDER BY s.last_name, s.first_name`

	ss := make([]student.Student, 0)
	err := repo.db.SelectContext(ctx, &ss, query, args...)
	return ss, err
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	query := `
UPDATE students
SET login = $1, password_hash = $2, last_name = $3, first_name = $4, middle_name = $5,
    group_id = $6, vk_id = $7, tg_id = $8, vyatsu_mail = $9, updated_at = now()
WHERE id = $10
RETURNING updated_at`
	err := repo.db.QueryRowxContext(ctx, query,
		s.Login, s.PasswordHash, s.LastName, s.FirstName, s.MiddleName,
		s.GroupID, s.VkID, s.TgID, s.VyatsuMail, s.ID,
	).Scan(&s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return student.Student{}, student.ErrNotFound
	}
	return s, err
}

func (repo *studentRepository) DeleteStudentByID(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.ErrNotFound
	}
	return nil
}
