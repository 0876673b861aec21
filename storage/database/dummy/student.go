package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/zhurnalapp/zhurnal/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) query() []student.Student {
	ss := make([]student.Student, 0, len(repo.db.student.table))
	for _, s := range repo.db.student.table {
		cp := *s
		repo.db.group.RLock()
		if g, ok := repo.db.group.table[cp.GroupID]; ok {
			cp.GroupTitle = g.Title
			cp.GroupNumber = g.Number
		}
		repo.db.group.RUnlock()
		ss = append(ss, cp)
	}
	sort.Slice(ss, func(i, j int) bool { return ss[i].ID < ss[j].ID })
	return ss
}

func (repo *studentRepository) CheckLoginUniqueness(ctx context.Context, login string, excl ...student.Student) (bool, error) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()

	for _, s := range repo.db.student.table {
		if s.Login != login {
			continue
		}
		excluded := false
		for _, e := range excl {
			if e.ID == s.ID {
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

func (repo *studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	repo.db.student.Lock()
	defer repo.db.student.Unlock()

	repo.db.student.pkCount++
	s.ID = repo.db.student.pkCount
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	repo.db.student.table[s.ID] = &s
	return s, nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()
	return repo.query(), nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id int) (student.Student, error) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()

	for _, s := range repo.query() {
		if s.ID == id {
			return s, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByLogin(ctx context.Context, login string) (student.Student, error) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()

	for _, s := range repo.query() {
		if s.Login == login {
			return s, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) FilterStudentsByGroup(ctx context.Context, groupID int) ([]student.Student, error) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()

	ss := make([]student.Student, 0)
	for _, s := range repo.query() {
		if s.GroupID == groupID {
			ss = append(ss, s)
		}
	}
	return ss, nil
}

func (repo *studentRepository) FilterStudentsBySubject(ctx context.Context, subjectID int, groupID *int) ([]student.Student, error) {
	groupIDs := make(map[int]bool)
	for _, a := range repo.db.assignments() {
		if a.SubjectID == subjectID {
			groupIDs[a.GroupID] = true
		}
	}

	repo.db.student.RLock()
	defer repo.db.student.RUnlock()

	ss := make([]student.Student, 0)
	for _, s := range repo.query() {
		if !groupIDs[s.GroupID] {
			continue
		}
		if groupID != nil && s.GroupID != *groupID {
			continue
		}
		ss = append(ss, s)
	}
	return ss, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	repo.db.student.Lock()
	defer repo.db.student.Unlock()

	orig, ok := repo.db.student.table[s.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	s.CreatedAt = orig.CreatedAt
	s.UpdatedAt = time.Now().UTC()
	repo.db.student.table[s.ID] = &s
	return s, nil
}

func (repo *studentRepository) DeleteStudentByID(ctx context.Context, id int) error {
	repo.db.student.Lock()
	defer repo.db.student.Unlock()

	if _, ok := repo.db.student.table[id]; !ok {
		return student.ErrNotFound
	}
	delete(repo.db.student.table, id)
	return nil
}
