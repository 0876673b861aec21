package group

import (
	"context"

	"github.com/pkg/errors"

	"github.com/zhurnalapp/zhurnal/core/grade"
)

var ErrNotFound = errors.New("group not found")

// Repository defines the interface needed to persist and query groups.
type Repository interface {
	CreateGroup(ctx context.Context, g Group) (Group, error)
	QueryAllGroups(ctx context.Context) ([]Group, error)
	GetGroupByID(ctx context.Context, id int) (Group, error)
	QueryGroupSubjects(ctx context.Context, groupID int) ([]GroupSubject, error)
	CountGroupStudents(ctx context.Context, groupID int) (int, error)
	ListGroupMarks(ctx context.Context, groupID int) ([]string, error)
	UpdateGroup(ctx context.Context, g Group) (Group, error)
	DeleteGroupByID(ctx context.Context, id int) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ng NewGroup) (Group, error) {
	g, err := svc.repo.CreateGroup(ctx, Group{Title: ng.Title, Number: ng.Number})
	return g, errors.Wrap(err, "creating group")
}

func (svc *Service) QueryAll(ctx context.Context) ([]Group, error) {
	gs, err := svc.repo.QueryAllGroups(ctx)
	return gs, errors.Wrap(err, "querying groups")
}

func (svc *Service) GetByID(ctx context.Context, id int) (Group, error) {
	return svc.repo.GetGroupByID(ctx, id)
}

// QuerySubjects lists the subjects taught to a group with their teachers.
func (svc *Service) QuerySubjects(ctx context.Context, groupID int) ([]GroupSubject, error) {
	subs, err := svc.repo.QueryGroupSubjects(ctx, groupID)
	return subs, errors.Wrap(err, "querying group subjects")
}

// Stats aggregates a group: lesson marks of all its students go through the
// numeric average, subjects come from its teaching assignments.
func (svc *Service) Stats(ctx context.Context, groupID int) (Stats, error) {
	if _, err := svc.repo.GetGroupByID(ctx, groupID); err != nil {
		return Stats{}, err
	}

	count, err := svc.repo.CountGroupStudents(ctx, groupID)
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting group students")
	}
	subs, err := svc.repo.QueryGroupSubjects(ctx, groupID)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying group subjects")
	}
	marks, err := svc.repo.ListGroupMarks(ctx, groupID)
	if err != nil {
		return Stats{}, errors.Wrap(err, "listing group marks")
	}

	return Stats{
		StudentCount: count,
		SubjectCount: len(subs),
		AvgMark:      grade.AverageNumeric(marks),
	}, nil
}

func (svc *Service) Update(ctx context.Context, g Group, ug UpdateGroup) (Group, error) {
	g.Title = ug.Title
	g.Number = ug.Number

	g, err := svc.repo.UpdateGroup(ctx, g)
	return g, errors.Wrap(err, "updating group")
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return errors.Wrap(svc.repo.DeleteGroupByID(ctx, id), "deleting group")
}
