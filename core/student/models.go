package student

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zhurnalapp/zhurnal/core"
	"github.com/zhurnalapp/zhurnal/core/auth"
)

type Student struct {
	ID           int       `json:"id" db:"id"`
	Login        string    `json:"login" db:"login"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	LastName     string    `json:"lastName" db:"last_name"`
	FirstName    string    `json:"firstName" db:"first_name"`
	MiddleName   string    `json:"middleName" db:"middle_name"`
	GroupID      int       `json:"groupId" db:"group_id"`
	VkID         string    `json:"vkId" db:"vk_id"`
	TgID         string    `json:"tgId" db:"tg_id"`
	VyatsuMail   string    `json:"vyatsuMail" db:"vyatsu_mail"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"` // UTC

	// joined on read
	GroupTitle  string `json:"groupTitle,omitempty" db:"group_title"`
	GroupNumber string `json:"groupNumber,omitempty" db:"group_number"`
}

func (s *Student) Name() string {
	return s.FirstName + " " + s.LastName
}

func (s *Student) Principal() auth.Principal {
	return auth.Principal{ID: s.ID, Login: s.Login, Role: auth.RoleStudent, Name: s.Name()}
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := auth.HashPassword(pwd)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Student) CheckPassword(pwd string) bool {
	return auth.CheckPassword(pwd, s.PasswordHash)
}

// PublicStudent is the projection served without authentication. It carries
// names and group only; credentials and contact fields have no place to
// leak from.
type PublicStudent struct {
	ID          int    `json:"id"`
	LastName    string `json:"lastName"`
	FirstName   string `json:"firstName"`
	MiddleName  string `json:"middleName"`
	GroupTitle  string `json:"groupTitle"`
	GroupNumber string `json:"groupNumber"`
}

func (s *Student) Public() PublicStudent {
	return PublicStudent{
		ID:          s.ID,
		LastName:    s.LastName,
		FirstName:   s.FirstName,
		MiddleName:  s.MiddleName,
		GroupTitle:  s.GroupTitle,
		GroupNumber: s.GroupNumber,
	}
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	Login      string `json:"login" validate:"required,alphanum_"`
	Password   string `json:"password" validate:"required,min=6"`
	LastName   string `json:"lastName" validate:"required"`
	FirstName  string `json:"firstName" validate:"required"`
	MiddleName string `json:"middleName"`
	GroupID    int    `json:"groupId" validate:"required"`
	VkID       string `json:"vkId"`
	TgID       string `json:"tgId"`
	VyatsuMail string `json:"vyatsuMail" validate:"omitempty,email"`
}

func (ns *NewStudent) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	ns.Login = core.CleanString(ns.Login, true /* lower */)
	ns.LastName = core.CleanString(ns.LastName)
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.MiddleName = core.CleanString(ns.MiddleName)
	ns.VyatsuMail = core.CleanString(ns.VyatsuMail, true /* lower */)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckLoginUniqueness(ctx, ns.Login)
}

// UpdateStudent defines what information may be provided to modify an
// existing Student. Empty fields keep their current value.
type UpdateStudent struct {
	Login      string `json:"login" validate:"omitempty,alphanum_"`
	LastName   string `json:"lastName"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	GroupID    int    `json:"groupId"`
	VkID       string `json:"vkId"`
	TgID       string `json:"tgId"`
	VyatsuMail string `json:"vyatsuMail" validate:"omitempty,email"`
}

func (us *UpdateStudent) Validate(ctx context.Context, orig Student, validate *validator.Validate, svc *Service) error {
	if login := core.CleanString(us.Login, true /* lower */); login != "" {
		us.Login = login
	} else {
		us.Login = orig.Login
	}
	if lastName := core.CleanString(us.LastName); lastName != "" {
		us.LastName = lastName
	} else {
		us.LastName = orig.LastName
	}
	if firstName := core.CleanString(us.FirstName); firstName != "" {
		us.FirstName = firstName
	} else {
		us.FirstName = orig.FirstName
	}
	us.MiddleName = core.CleanString(us.MiddleName)
	if us.MiddleName == "" {
		us.MiddleName = orig.MiddleName
	}
	if us.GroupID == 0 {
		us.GroupID = orig.GroupID
	}
	if us.VkID == "" {
		us.VkID = orig.VkID
	}
	if us.TgID == "" {
		us.TgID = orig.TgID
	}
	if mail := core.CleanString(us.VyatsuMail, true /* lower */); mail != "" {
		us.VyatsuMail = mail
	} else {
		us.VyatsuMail = orig.VyatsuMail
	}

	if err := validate.Struct(us); err != nil {
		return err
	}
	return svc.CheckLoginUniqueness(ctx, us.Login, orig)
}
