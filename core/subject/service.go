package subject

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("subject not found")

// Repository defines the interface needed to persist and query subjects.
type Repository interface {
	CreateSubject(ctx context.Context, s Subject) (Subject, error)
	QueryAllSubjects(ctx context.Context) ([]Subject, error)
	GetSubjectByID(ctx context.Context, id int) (Subject, error)
	QuerySubjectTeachers(ctx context.Context, subjectID int) ([]SubjectTeacher, error)
	QuerySubjectGroups(ctx context.Context, subjectID int) ([]SubjectGroup, error)
	UpdateSubject(ctx context.Context, s Subject) (Subject, error)
	DeleteSubjectByID(ctx context.Context, id int) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ns NewSubject) (Subject, error) {
	s, err := svc.repo.CreateSubject(ctx, Subject{Title: ns.Title})
	return s, errors.Wrap(err, "creating subject")
}

func (svc *Service) QueryAll(ctx context.Context) ([]Subject, error) {
	subs, err := svc.repo.QueryAllSubjects(ctx)
	return subs, errors.Wrap(err, "querying subjects")
}

func (svc *Service) GetByID(ctx context.Context, id int) (Subject, error) {
	return svc.repo.GetSubjectByID(ctx, id)
}

// QueryTeachers lists the teachers giving a subject and the groups they
// give it to.
func (svc *Service) QueryTeachers(ctx context.Context, subjectID int) ([]SubjectTeacher, error) {
	ts, err := svc.repo.QuerySubjectTeachers(ctx, subjectID)
	return ts, errors.Wrap(err, "querying subject teachers")
}

// QueryGroups lists the groups a subject is taught to.
func (svc *Service) QueryGroups(ctx context.Context, subjectID int) ([]SubjectGroup, error) {
	gs, err := svc.repo.QuerySubjectGroups(ctx, subjectID)
	return gs, errors.Wrap(err, "querying subject groups")
}

func (svc *Service) Update(ctx context.Context, s Subject, us UpdateSubject) (Subject, error) {
	s.Title = us.Title

	s, err := svc.repo.UpdateSubject(ctx, s)
	return s, errors.Wrap(err, "updating subject")
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return errors.Wrap(svc.repo.DeleteSubjectByID(ctx, id), "deleting subject")
}
