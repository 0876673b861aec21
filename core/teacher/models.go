package teacher

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zhurnalapp/zhurnal/core"
	"github.com/zhurnalapp/zhurnal/core/auth"
)

type Teacher struct {
	ID           int       `json:"id" db:"id"`
	Login        string    `json:"login" db:"login"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	LastName     string    `json:"lastName" db:"last_name"`
	FirstName    string    `json:"firstName" db:"first_name"`
	MiddleName   string    `json:"middleName" db:"middle_name"`
	VkID         string    `json:"vkId" db:"vk_id"`
	TgID         string    `json:"tgId" db:"tg_id"`
	VyatsuMail   string    `json:"vyatsuMail" db:"vyatsu_mail"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"` // UTC
}

func (t *Teacher) Name() string {
	return t.FirstName + " " + t.LastName
}

func (t *Teacher) Principal() auth.Principal {
	return auth.Principal{ID: t.ID, Login: t.Login, Role: auth.RoleTeacher, Name: t.Name()}
}

func (t *Teacher) SetPassword(pwd string) error {
	hash, err := auth.HashPassword(pwd)
	if err != nil {
		return err
	}
	t.PasswordHash = hash
	return nil
}

func (t *Teacher) CheckPassword(pwd string) bool {
	return auth.CheckPassword(pwd, t.PasswordHash)
}

// Assignment is one subject a teacher gives to one group.
type Assignment struct {
	SubjectID    int    `json:"subjectId" db:"subject_id"`
	SubjectTitle string `json:"subjectTitle" db:"subject_title"`
	GroupID      int    `json:"groupId" db:"group_id"`
	GroupTitle   string `json:"groupTitle" db:"group_title"`
	GroupNumber  string `json:"groupNumber" db:"group_number"`
}

// NewTeacher contains information needed to register a new Teacher.
type NewTeacher struct {
	Login      string `json:"login" validate:"required,alphanum_"`
	Password   string `json:"password" validate:"required,min=6"`
	LastName   string `json:"lastName" validate:"required"`
	FirstName  string `json:"firstName" validate:"required"`
	MiddleName string `json:"middleName"`
	VkID       string `json:"vkId"`
	TgID       string `json:"tgId"`
	VyatsuMail string `json:"vyatsuMail" validate:"omitempty,email"`
}

func (nt *NewTeacher) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	nt.Login = core.CleanString(nt.Login, true /* lower */)
	nt.LastName = core.CleanString(nt.LastName)
	nt.FirstName = core.CleanString(nt.FirstName)
	nt.MiddleName = core.CleanString(nt.MiddleName)
	nt.VyatsuMail = core.CleanString(nt.VyatsuMail, true /* lower */)

	if err := validate.Struct(nt); err != nil {
		return err
	}
	return svc.CheckLoginUniqueness(ctx, nt.Login)
}

// UpdateTeacher defines what information may be provided to modify an
// existing Teacher. Empty fields keep their current value.
type UpdateTeacher struct {
	Login      string `json:"login" validate:"omitempty,alphanum_"`
	LastName   string `json:"lastName"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	VkID       string `json:"vkId"`
	TgID       string `json:"tgId"`
	VyatsuMail string `json:"vyatsuMail" validate:"omitempty,email"`
}

func (ut *UpdateTeacher) Validate(ctx context.Context, orig Teacher, validate *validator.Validate, svc *Service) error {
	if login := core.CleanString(ut.Login, true /* lower */); login != "" {
		ut.Login = login
	} else {
		ut.Login = orig.Login
	}
	if lastName := core.CleanString(ut.LastName); lastName != "" {
		ut.LastName = lastName
	} else {
		ut.LastName = orig.LastName
	}
	if firstName := core.CleanString(ut.FirstName); firstName != "" {
		ut.FirstName = firstName
	} else {
		ut.FirstName = orig.FirstName
	}
	ut.MiddleName = core.CleanString(ut.MiddleName)
	if ut.MiddleName == "" {
		ut.MiddleName = orig.MiddleName
	}
	if ut.VkID == "" {
		ut.VkID = orig.VkID
	}
	if ut.TgID == "" {
		ut.TgID = orig.TgID
	}
	if mail := core.CleanString(ut.VyatsuMail, true /* lower */); mail != "" {
		ut.VyatsuMail = mail
	} else {
		ut.VyatsuMail = orig.VyatsuMail
	}

	if err := validate.Struct(ut); err != nil {
		return err
	}
	return svc.CheckLoginUniqueness(ctx, ut.Login, orig)
}
