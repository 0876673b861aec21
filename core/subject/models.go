package subject

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/zhurnalapp/zhurnal/core"
)

type Subject struct {
	ID    int    `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
}

// SubjectType distinguishes the forms a subject is taught in
// (lecture, lab, seminar...). Lessons reference it.
type SubjectType struct {
	ID    int    `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
}

// SubjectTeacher is one teacher giving a subject, with the group they give
// it to.
type SubjectTeacher struct {
	TeacherID   int    `json:"teacherId" db:"teacher_id"`
	TeacherName string `json:"teacherName" db:"teacher_name"`
	GroupID     int    `json:"groupId" db:"group_id"`
	GroupTitle  string `json:"groupTitle" db:"group_title"`
}

// SubjectGroup is one group a subject is taught to.
type SubjectGroup struct {
	GroupID     int    `json:"groupId" db:"group_id"`
	GroupTitle  string `json:"groupTitle" db:"group_title"`
	GroupNumber string `json:"groupNumber" db:"group_number"`
}

type NewSubject struct {
	Title string `json:"title" validate:"required"`
}

func (ns *NewSubject) Validate(ctx context.Context, validate *validator.Validate) error {
	ns.Title = core.CleanString(ns.Title)
	return validate.StructCtx(ctx, ns)
}

// UpdateSubject defines what information may be provided to modify an
// existing Subject.
type UpdateSubject struct {
	Title string `json:"title" validate:"required"`
}

func (us *UpdateSubject) Validate(ctx context.Context, validate *validator.Validate) error {
	us.Title = core.CleanString(us.Title)
	return validate.StructCtx(ctx, us)
}
