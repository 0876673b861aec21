package dummydb

import (
	"context"
	"sort"

	"github.com/zhurnalapp/zhurnal/core/group"
)

type groupRepository struct {
	db *DB
}

var _ group.Repository = (*groupRepository)(nil) // interface compliance check

func NewGroupRepository(db *DB) group.Repository {
	return &groupRepository{db: db}
}

func (repo *groupRepository) CreateGroup(ctx context.Context, g group.Group) (group.Group, error) {
	repo.db.group.Lock()
	defer repo.db.group.Unlock()

	repo.db.group.pkCount++
	g.ID = repo.db.group.pkCount
	repo.db.group.table[g.ID] = &g
	return g, nil
}

func (repo *groupRepository) QueryAllGroups(ctx context.Context) ([]group.Group, error) {
	repo.db.group.RLock()
	defer repo.db.group.RUnlock()

	gs := make([]group.Group, 0, len(repo.db.group.table))
	for _, g := range repo.db.group.table {
		gs = append(gs, *g)
	}
	sort.Slice(gs, func(i, j int) bool { return gs[i].ID < gs[j].ID })
	return gs, nil
}

func (repo *groupRepository) GetGroupByID(ctx context.Context, id int) (group.Group, error) {
	repo.db.group.RLock()
	defer repo.db.group.RUnlock()

	if g, ok := repo.db.group.table[id]; ok {
		return *g, nil
	}
	return group.Group{}, group.ErrNotFound
}

func (repo *groupRepository) QueryGroupSubjects(ctx context.Context, groupID int) ([]group.GroupSubject, error) {
	subs := make([]group.GroupSubject, 0)
	for _, row := range repo.db.assignments() {
		if row.GroupID != groupID {
			continue
		}
		gs := group.GroupSubject{SubjectID: row.SubjectID, TeacherID: row.TeacherID}
		repo.db.subject.RLock()
		if sub, ok := repo.db.subject.table[row.SubjectID]; ok {
			gs.SubjectTitle = sub.Title
		}
		repo.db.subject.RUnlock()
		repo.db.teacher.RLock()
		if t, ok := repo.db.teacher.table[row.TeacherID]; ok {
			gs.TeacherName = t.Name()
		}
		repo.db.teacher.RUnlock()
		subs = append(subs, gs)
	}
	return subs, nil
}

func (repo *groupRepository) CountGroupStudents(ctx context.Context, groupID int) (int, error) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()

	var count int
	for _, s := range repo.db.student.table {
		if s.GroupID == groupID {
			count++
		}
	}
	return count, nil
}

func (repo *groupRepository) ListGroupMarks(ctx context.Context, groupID int) ([]string, error) {
	repo.db.student.RLock()
	inGroup := make(map[int]bool)
	for _, s := range repo.db.student.table {
		if s.GroupID == groupID {
			inGroup[s.ID] = true
		}
	}
	repo.db.student.RUnlock()

	repo.db.grade.RLock()
	defer repo.db.grade.RUnlock()

	marks := make([]string, 0)
	for _, l := range repo.db.grade.lessons {
		if inGroup[l.StudentID] {
			marks = append(marks, l.Mark)
		}
	}
	return marks, nil
}

func (repo *groupRepository) UpdateGroup(ctx context.Context, g group.Group) (group.Group, error) {
	repo.db.group.Lock()
	defer repo.db.group.Unlock()

	if _, ok := repo.db.group.table[g.ID]; !ok {
		return group.Group{}, group.ErrNotFound
	}
	repo.db.group.table[g.ID] = &g
	return g, nil
}

func (repo *groupRepository) DeleteGroupByID(ctx context.Context, id int) error {
	repo.db.group.Lock()
	defer repo.db.group.Unlock()

	if _, ok := repo.db.group.table[id]; !ok {
		return group.ErrNotFound
	}
	delete(repo.db.group.table, id)
	return nil
}
