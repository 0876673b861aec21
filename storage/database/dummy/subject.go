package dummydb

import (
	"context"
	"sort"

	"github.com/zhurnalapp/zhurnal/core/subject"
)

type subjectRepository struct {
	db *DB
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *DB) subject.Repository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) CreateSubject(ctx context.Context, s subject.Subject) (subject.Subject, error) {
	repo.db.subject.Lock()
	defer repo.db.subject.Unlock()

	repo.db.subject.pkCount++
	s.ID = repo.db.subject.pkCount
	repo.db.subject.table[s.ID] = &s
	return s, nil
}

func (repo *subjectRepository) QueryAllSubjects(ctx context.Context) ([]subject.Subject, error) {
	repo.db.subject.RLock()
	defer repo.db.subject.RUnlock()

	subs := make([]subject.Subject, 0, len(repo.db.subject.table))
	for _, s := range repo.db.subject.table {
		subs = append(subs, *s)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs, nil
}

func (repo *subjectRepository) GetSubjectByID(ctx context.Context, id int) (subject.Subject, error) {
	repo.db.subject.RLock()
	defer repo.db.subject.RUnlock()

	if s, ok := repo.db.subject.table[id]; ok {
		return *s, nil
	}
	return subject.Subject{}, subject.ErrNotFound
}

func (repo *subjectRepository) QuerySubjectTeachers(ctx context.Context, subjectID int) ([]subject.SubjectTeacher, error) {
	ts := make([]subject.SubjectTeacher, 0)
	for _, row := range repo.db.assignments() {
		if row.SubjectID != subjectID {
			continue
		}
		st := subject.SubjectTeacher{TeacherID: row.TeacherID, GroupID: row.GroupID}
		repo.db.teacher.RLock()
		if t, ok := repo.db.teacher.table[row.TeacherID]; ok {
			st.TeacherName = t.Name()
		}
		repo.db.teacher.RUnlock()
		repo.db.group.RLock()
		if g, ok := repo.db.group.table[row.GroupID]; ok {
			st.GroupTitle = g.Title
		}
		repo.db.group.RUnlock()
		ts = append(ts, st)
	}
	return ts, nil
}

func (repo *subjectRepository) QuerySubjectGroups(ctx context.Context, subjectID int) ([]subject.SubjectGroup, error) {
	seen := make(map[int]bool)
	gs := make([]subject.SubjectGroup, 0)
	for _, row := range repo.db.assignments() {
		if row.SubjectID != subjectID || seen[row.GroupID] {
			continue
		}
		seen[row.GroupID] = true
		sg := subject.SubjectGroup{GroupID: row.GroupID}
		repo.db.group.RLock()
		if g, ok := repo.db.group.table[row.GroupID]; ok {
			sg.GroupTitle = g.Title
			sg.GroupNumber = g.Number
		}
		repo.db.group.RUnlock()
		gs = append(gs, sg)
	}
	return gs, nil
}

func (repo *subjectRepository) UpdateSubject(ctx context.Context, s subject.Subject) (subject.Subject, error) {
	repo.db.subject.Lock()
	defer repo.db.subject.Unlock()

	if _, ok := repo.db.subject.table[s.ID]; !ok {
		return subject.Subject{}, subject.ErrNotFound
	}
	repo.db.subject.table[s.ID] = &s
	return s, nil
}

func (repo *subjectRepository) DeleteSubjectByID(ctx context.Context, id int) error {
	repo.db.subject.Lock()
	defer repo.db.subject.Unlock()

	if _, ok := repo.db.subject.table[id]; !ok {
		return subject.ErrNotFound
	}
	delete(repo.db.subject.table, id)
	return nil
}
