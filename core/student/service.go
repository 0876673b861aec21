package student

import (
	"context"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/zhurnalapp/zhurnal/core"
)

var (
	ErrNotFound    = errors.New("student not found")
	ErrLoginExists = errors.New("a student with this login already exists")
)

// Repository defines the interface needed to persist and query students.
type Repository interface {
	CheckLoginUniqueness(ctx context.Context, login string, excludedStudents ...Student) (bool, error)
	CreateStudent(ctx context.Context, s Student) (Student, error)
	QueryAllStudents(ctx context.Context) ([]Student, error)
	GetStudentByID(ctx context.Context, id int) (Student, error)
	GetStudentByLogin(ctx context.Context, login string) (Student, error)
	FilterStudentsByGroup(ctx context.Context, groupID int) ([]Student, error)
	FilterStudentsBySubject(ctx context.Context, subjectID int, groupID *int) ([]Student, error)
	UpdateStudent(ctx context.Context, s Student) (Student, error)
	DeleteStudentByID(ctx context.Context, id int) error
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

func (svc *Service) CheckLoginUniqueness(ctx context.Context, login string, excl ...Student) error {
	unique, err := svc.repo.CheckLoginUniqueness(ctx, login, excl...)
	if err != nil {
		return errors.Wrap(err, "checking login uniqueness")
	}
	if !unique {
		return ErrLoginExists
	}
	return nil
}

// Create registers a new student and sends them a welcome email when a
// university mail address was provided.
func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	s := Student{
		Login:      ns.Login,
		LastName:   ns.LastName,
		FirstName:  ns.FirstName,
		MiddleName: ns.MiddleName,
		GroupID:    ns.GroupID,
		VkID:       ns.VkID,
		TgID:       ns.TgID,
		VyatsuMail: ns.VyatsuMail,
	}
	if err := s.SetPassword(ns.Password); err != nil {
		return Student{}, errors.Wrap(err, "hashing password")
	}

	s, err := svc.repo.CreateStudent(ctx, s)
	if err != nil {
		return Student{}, errors.Wrap(err, "creating student")
	}

	if s.VyatsuMail != "" {
		svc.sendWelcomeEmail(s)
	}
	return s, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	ss, err := svc.repo.QueryAllStudents(ctx)
	return ss, errors.Wrap(err, "querying students")
}

func (svc *Service) GetByID(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) GetByLogin(ctx context.Context, login string) (Student, error) {
	return svc.repo.GetStudentByLogin(ctx, login)
}

// Authenticate looks a student up by login and checks their password. Both
// failure modes collapse into ErrNotFound so callers cannot probe which
// logins exist.
func (svc *Service) Authenticate(ctx context.Context, login, password string) (Student, error) {
	s, err := svc.repo.GetStudentByLogin(ctx, core.CleanString(login, true /* lower */))
	if err != nil {
		return Student{}, ErrNotFound
	}
	if !s.CheckPassword(password) {
		return Student{}, ErrNotFound
	}
	return s, nil
}

func (svc *Service) FilterByGroup(ctx context.Context, groupID int) ([]Student, error) {
	ss, err := svc.repo.FilterStudentsByGroup(ctx, groupID)
	return ss, errors.Wrap(err, "filtering students by group")
}

// FilterBySubject lists the students of every group a subject is taught to,
// optionally narrowed to one group.
func (svc *Service) FilterBySubject(ctx context.Context, subjectID int, groupID *int) ([]Student, error) {
	ss, err := svc.repo.FilterStudentsBySubject(ctx, subjectID, groupID)
	return ss, errors.Wrap(err, "filtering students by subject")
}

func (svc *Service) Update(ctx context.Context, s Student, us UpdateStudent) (Student, error) {
	s.Login = us.Login
	s.LastName = us.LastName
	s.FirstName = us.FirstName
	s.MiddleName = us.MiddleName
	s.GroupID = us.GroupID
	s.VkID = us.VkID
	s.TgID = us.TgID
	s.VyatsuMail = us.VyatsuMail

	s, err := svc.repo.UpdateStudent(ctx, s)
	return s, errors.Wrap(err, "updating student")
}

// SetPassword replaces a student's password after re-checking the current
// one.
func (svc *Service) SetPassword(ctx context.Context, s Student, oldPwd, newPwd string) error {
	if !s.CheckPassword(oldPwd) {
		return ErrNotFound
	}
	if err := s.SetPassword(newPwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	_, err := svc.repo.UpdateStudent(ctx, s)
	return errors.Wrap(err, "updating student password")
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return errors.Wrap(svc.repo.DeleteStudentByID(ctx, id), "deleting student")
}

func (svc *Service) sendWelcomeEmail(s Student) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: s.Name(), Address: s.VyatsuMail}},
		Subject:      "Welcome to " + svc.conf.AppName,
		TemplateName: "welcome",
		TemplateData: struct {
			Name  string
			Login string
		}{Name: s.FirstName, Login: s.Login},
	})
}
