package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/zhurnalapp/zhurnal/core/group"
)

type groupRepository struct {
	db *sqlx.DB
}

var _ group.Repository = (*groupRepository)(nil) // interface compliance check

func NewGroupRepository(db *sqlx.DB) group.Repository {
	return &groupRepository{db: db}
}

func (repo *groupRepository) CreateGroup(ctx context.Context, g group.Group) (group.Group, error) {
	query := `INSERT INTO groups (title, number) VALUES ($1, $2) RETURNING id`
	err := repo.db.QueryRowxContext(ctx, query, g.Title, g.Number).Scan(&g.ID)
	return g, err
}

func (repo *groupRepository) QueryAllGroups(ctx context.Context) ([]group.Group, error) {
	gs := make([]group.Group, 0)
	err := repo.db.SelectContext(ctx, &gs, `SELECT id, title, number FROM groups ORDER BY title`)
	return gs, err
}

func (repo *groupRepository) GetGroupByID(ctx context.Context, id int) (group.Group, error) {
	var g group.Group
	err := repo.db.GetContext(ctx, &g, `SELECT id, title, number FROM groups WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return group.Group{}, group.ErrNotFound
	}
	return g, err
}

func (repo *groupRepository) QueryGroupSubjects(ctx context.Context, groupID int) ([]group.GroupSubject, error) {
	query := `
SELECT ts.subject_id, sub.title AS subject_title,
       ts.teacher_id, t.first_name || ' ' || t.last_name AS teacher_name
FROM teacher_subjects ts
JOIN subjects sub ON sub.id = ts.subject_id
JOIN teachers t ON t.id = ts.teacher_id
WHERE ts.group_id = $1
ORDER BY sub.title`
	subs := make([]group.GroupSubject, 0)
	err := repo.db.SelectContext(ctx, &subs, query, groupID)
	return subs, err
}

func (repo *groupRepository) CountGroupStudents(ctx context.Context, groupID int) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM students WHERE group_id = $1`, groupID)
	return count, err
}

func (repo *groupRepository) ListGroupMarks(ctx context.Context, groupID int) ([]string, error) {
	query := `
SELECT l.mark
FROM lessons l
JOIN students s ON s.id = l.student_id
WHERE s.group_id = $1`
	marks := make([]string, 0)
	err := repo.db.SelectContext(ctx, &marks, query, groupID)
	return marks, err
}

func (repo *groupRepository) UpdateGroup(ctx context.Context, g group.Group) (group.Group, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE groups SET title = $1, number = $2 WHERE id = $3`, g.Title, g.Number, g.ID)
	if err != nil {
		return group.Group{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return group.Group{}, group.ErrNotFound
	}
	return g, nil
}

func (repo *groupRepository) DeleteGroupByID(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return group.ErrNotFound
	}
	return nil
}
