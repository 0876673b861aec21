package teacher

import (
	"context"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/zhurnalapp/zhurnal/core"
)

var (
	ErrNotFound    = errors.New("teacher not found")
	ErrLoginExists = errors.New("a teacher with this login already exists")
)

// Repository defines the interface needed to persist and query teachers.
type Repository interface {
	CheckLoginUniqueness(ctx context.Context, login string, excludedTeachers ...Teacher) (bool, error)
	CreateTeacher(ctx context.Context, t Teacher) (Teacher, error)
	QueryAllTeachers(ctx context.Context) ([]Teacher, error)
	GetTeacherByID(ctx context.Context, id int) (Teacher, error)
	GetTeacherByLogin(ctx context.Context, login string) (Teacher, error)
	QueryAssignments(ctx context.Context, teacherID int) ([]Assignment, error)
	UpdateTeacher(ctx context.Context, t Teacher) (Teacher, error)
	DeleteTeacherByID(ctx context.Context, id int) error
}

type Service struct {
	conf    *core.Config
	repo    Repository
	mailSvc core.EmailService
}

func NewService(conf *core.Config, repo Repository, mailSvc core.EmailService) *Service {
	return &Service{
		conf:    conf,
		repo:    repo,
		mailSvc: mailSvc,
	}
}

func (svc *Service) CheckLoginUniqueness(ctx context.Context, login string, excl ...Teacher) error {
	unique, err := svc.repo.CheckLoginUniqueness(ctx, login, excl...)
	if err != nil {
		return errors.Wrap(err, "checking login uniqueness")
	}
	if !unique {
		return ErrLoginExists
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	t := Teacher{
		Login:      nt.Login,
		LastName:   nt.LastName,
		FirstName:  nt.FirstName,
		MiddleName: nt.MiddleName,
		VkID:       nt.VkID,
		TgID:       nt.TgID,
		VyatsuMail: nt.VyatsuMail,
	}
	if err := t.SetPassword(nt.Password); err != nil {
		return Teacher{}, errors.Wrap(err, "hashing password")
	}

	t, err := svc.repo.CreateTeacher(ctx, t)
	if err != nil {
		return Teacher{}, errors.Wrap(err, "creating teacher")
	}

	if t.VyatsuMail != "" {
		svc.sendWelcomeEmail(t)
	}
	return t, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Teacher, error) {
	ts, err := svc.repo.QueryAllTeachers(ctx)
	return ts, errors.Wrap(err, "querying teachers")
}

func (svc *Service) GetByID(ctx context.Context, id int) (Teacher, error) {
	return svc.repo.GetTeacherByID(ctx, id)
}

func (svc *Service) GetByLogin(ctx context.Context, login string) (Teacher, error) {
	return svc.repo.GetTeacherByLogin(ctx, login)
}

// Authenticate looks a teacher up by login and checks their password. Both
// failure modes collapse into ErrNotFound so callers cannot probe which
// logins exist.
func (svc *Service) Authenticate(ctx context.Context, login, password string) (Teacher, error) {
	t, err := svc.repo.GetTeacherByLogin(ctx, core.CleanString(login, true /* lower */))
	if err != nil {
		return Teacher{}, ErrNotFound
	}
	if !t.CheckPassword(password) {
		return Teacher{}, ErrNotFound
	}
	return t, nil
}

// QueryAssignments lists the (subject, group) pairs a teacher gives.
func (svc *Service) QueryAssignments(ctx context.Context, teacherID int) ([]Assignment, error) {
	as, err := svc.repo.QueryAssignments(ctx, teacherID)
	return as, errors.Wrap(err, "querying teacher assignments")
}

func (svc *Service) Update(ctx context.Context, t Teacher, ut UpdateTeacher) (Teacher, error) {
	t.Login = ut.Login
	t.LastName = ut.LastName
	t.FirstName = ut.FirstName
	t.MiddleName = ut.MiddleName
	t.VkID = ut.VkID
	t.TgID = ut.TgID
	t.VyatsuMail = ut.VyatsuMail

	t, err := svc.repo.UpdateTeacher(ctx, t)
	return t, errors.Wrap(err, "updating teacher")
}

// SetPassword replaces a teacher's password after re-checking the current
// one.
func (svc *Service) SetPassword(ctx context.Context, t Teacher, oldPwd, newPwd string) error {
	if !t.CheckPassword(oldPwd) {
		return ErrNotFound
	}
	if err := t.SetPassword(newPwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	_, err := svc.repo.UpdateTeacher(ctx, t)
	return errors.Wrap(err, "updating teacher password")
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return errors.Wrap(svc.repo.DeleteTeacherByID(ctx, id), "deleting teacher")
}

func (svc *Service) sendWelcomeEmail(t Teacher) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: t.Name(), Address: t.VyatsuMail}},
		Subject:      "Welcome to " + svc.conf.AppName,
		TemplateName: "welcome",
		TemplateData: struct {
			Name  string
			Login string
		}{Name: t.FirstName, Login: t.Login},
	})
}
