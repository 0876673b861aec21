package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/zhurnalapp/zhurnal/core/teacher"
)

type teacherRepository struct {
	db *DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *DB) teacher.Repository {
	return &teacherRepository{db: db}
}

func (repo *teacherRepository) query() []teacher.Teacher {
	ts := make([]teacher.Teacher, 0, len(repo.db.teacher.table))
	for _, t := range repo.db.teacher.table {
		ts = append(ts, *t)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].ID < ts[j].ID })
	return ts
}

func (repo *teacherRepository) CheckLoginUniqueness(ctx context.Context, login string, excl ...teacher.Teacher) (bool, error) {
	repo.db.teacher.RLock()
	defer repo.db.teacher.RUnlock()

	for _, t := range repo.db.teacher.table {
		if t.Login != login {
			continue
		}
		excluded := false
		for _, e := range excl {
			if e.ID == t.ID {
				excluded = true
				break
			}
		}
		if !excluded {
			return false, nil
		}
	}
	return true, nil
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	repo.db.teacher.Lock()
	defer repo.db.teacher.Unlock()

	repo.db.teacher.pkCount++
	t.ID = repo.db.teacher.pkCount
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	repo.db.teacher.table[t.ID] = &t
	return t, nil
}

func (repo *teacherRepository) QueryAllTeachers(ctx context.Context) ([]teacher.Teacher, error) {
	repo.db.teacher.RLock()
	defer repo.db.teacher.RUnlock()
	return repo.query(), nil
}

func (repo *teacherRepository) GetTeacherByID(ctx context.Context, id int) (teacher.Teacher, error) {
	repo.db.teacher.RLock()
	defer repo.db.teacher.RUnlock()

	if t, ok := repo.db.teacher.table[id]; ok {
		return *t, nil
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) GetTeacherByLogin(ctx context.Context, login string) (teacher.Teacher, error) {
	repo.db.teacher.RLock()
	defer repo.db.teacher.RUnlock()

	for _, t := range repo.query() {
		if t.Login == login {
			return t, nil
		}
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) QueryAssignments(ctx context.Context, teacherID int) ([]teacher.Assignment, error) {
	as := make([]teacher.Assignment, 0)
	for _, row := range repo.db.assignments() {
		if row.TeacherID != teacherID {
			continue
		}
		a := teacher.Assignment{SubjectID: row.SubjectID, GroupID: row.GroupID}
		repo.db.subject.RLock()
		if sub, ok := repo.db.subject.table[row.SubjectID]; ok {
			a.SubjectTitle = sub.Title
		}
		repo.db.subject.RUnlock()
		repo.db.group.RLock()
		if g, ok := repo.db.group.table[row.GroupID]; ok {
			a.GroupTitle = g.Title
			a.GroupNumber = g.Number
		}
		repo.db.group.RUnlock()
		as = append(as, a)
	}
	return as, nil
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	repo.db.teacher.Lock()
	defer repo.db.teacher.Unlock()

	orig, ok := repo.db.teacher.table[t.ID]
	if !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	t.CreatedAt = orig.CreatedAt
	t.UpdatedAt = time.Now().UTC()
	repo.db.teacher.table[t.ID] = &t
	return t, nil
}

func (repo *teacherRepository) DeleteTeacherByID(ctx context.Context, id int) error {
	repo.db.teacher.Lock()
	defer repo.db.teacher.Unlock()

	if _, ok := repo.db.teacher.table[id]; !ok {
		return teacher.ErrNotFound
	}
	delete(repo.db.teacher.table, id)
	return nil
}
