package group

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/zhurnalapp/zhurnal/core"
)

type Group struct {
	ID     int    `json:"id" db:"id"`
	Title  string `json:"title" db:"title"`
	Number string `json:"number" db:"number"`
}

// GroupSubject is one subject taught to a group, with the teacher giving it.
type GroupSubject struct {
	SubjectID    int    `json:"subjectId" db:"subject_id"`
	SubjectTitle string `json:"subjectTitle" db:"subject_title"`
	TeacherID    int    `json:"teacherId" db:"teacher_id"`
	TeacherName  string `json:"teacherName" db:"teacher_name"`
}

// Stats summarizes a group: headcount, curriculum size and the average of
// all numeric marks its students received.
type Stats struct {
	StudentCount int     `json:"studentCount"`
	SubjectCount int     `json:"subjectCount"`
	AvgMark      float64 `json:"avgMark"`
}

type NewGroup struct {
	Title  string `json:"title" validate:"required"`
	Number string `json:"number" validate:"required"`
}

func (ng *NewGroup) Validate(ctx context.Context, validate *validator.Validate) error {
	ng.Title = core.CleanString(ng.Title)
	ng.Number = core.CleanString(ng.Number)
	return validate.StructCtx(ctx, ng)
}

// UpdateGroup defines what information may be provided to modify an
// existing Group. Empty fields keep their current value.
type UpdateGroup struct {
	Title  string `json:"title"`
	Number string `json:"number"`
}

func (ug *UpdateGroup) Validate(ctx context.Context, orig Group, validate *validator.Validate) error {
	if title := core.CleanString(ug.Title); title != "" {
		ug.Title = title
	} else {
		ug.Title = orig.Title
	}
	if number := core.CleanString(ug.Number); number != "" {
		ug.Number = number
	} else {
		ug.Number = orig.Number
	}
	return validate.StructCtx(ctx, ug)
}
