package grade

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zhurnalapp/zhurnal/core"
)

// DateFormat is the wire format for lesson and activity dates.
const DateFormat = "2006-01-02"

type (
	// Lesson is one attendance/journal cell: a student on a subject, in a
	// given form of teaching, on a given date. The (student, subject, type,
	// date) tuple is unique.
	Lesson struct {
		ID            int       `json:"id" db:"id"`
		StudentID     int       `json:"studentId" db:"student_id"`
		SubjectID     int       `json:"subjectId" db:"subject_id"`
		SubjectTypeID int       `json:"subjectTypeId" db:"subject_type_id"`
		Mark          string    `json:"mark" db:"mark"`
		Date          time.Time `json:"date" db:"date"`

		// joined on read
		StudentName      string `json:"studentName,omitempty" db:"student_name"`
		SubjectTitle     string `json:"subjectTitle,omitempty" db:"subject_title"`
		SubjectTypeTitle string `json:"subjectTypeTitle,omitempty" db:"subject_type_title"`
	}

	// Activity is one graded piece of work: a task, a lab, an answer in
	// class. Task and task type are optional.
	Activity struct {
		ID         int       `json:"id" db:"id"`
		StudentID  int       `json:"studentId" db:"student_id"`
		SubjectID  int       `json:"subjectId" db:"subject_id"`
		TeacherID  int       `json:"teacherId" db:"teacher_id"`
		TaskID     *int      `json:"taskId" db:"task_id"`
		TaskTypeID *int      `json:"taskTypeId" db:"task_type_id"`
		Meta       string    `json:"meta" db:"meta"`
		Date       time.Time `json:"date" db:"date"`
		Mark       string    `json:"mark" db:"mark"`
		TaskNumber int       `json:"taskNumber" db:"task_number"`
		Number     int       `json:"number" db:"number"`

		// joined on read
		StudentName   string `json:"studentName,omitempty" db:"student_name"`
		SubjectTitle  string `json:"subjectTitle,omitempty" db:"subject_title"`
		TaskTypeTitle string `json:"taskTypeTitle,omitempty" db:"task_type_title"`
	}

	// TaskType labels what kind of work an activity grades.
	TaskType struct {
		ID    int    `json:"id" db:"id"`
		Title string `json:"title" db:"title"`
	}

	// Task is a concrete assignment activities can reference.
	Task struct {
		ID   int    `json:"id" db:"id"`
		Meta string `json:"meta" db:"meta"`
	}
)

type NewLesson struct {
	StudentID     int    `json:"studentId" validate:"required"`
	SubjectID     int    `json:"subjectId" validate:"required"`
	SubjectTypeID int    `json:"subjectTypeId" validate:"required"`
	Mark          string `json:"mark" validate:"max=8"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (nl *NewLesson) Validate(ctx context.Context, validate *validator.Validate) error {
	nl.Mark = core.CleanString(nl.Mark)
	return validate.StructCtx(ctx, nl)
}

func (nl *NewLesson) Lesson() Lesson {
	date, _ := time.Parse(DateFormat, nl.Date) // validated
	return Lesson{
		StudentID:     nl.StudentID,
		SubjectID:     nl.SubjectID,
		SubjectTypeID: nl.SubjectTypeID,
		Mark:          nl.Mark,
		Date:          date,
	}
}

// BulkLessons describes one journal column: a lesson for every student of a
// group, sharing subject, form, date and mark.
type BulkLessons struct {
	GroupID       int    `json:"groupId" validate:"required"`
	SubjectID     int    `json:"subjectId" validate:"required"`
	SubjectTypeID int    `json:"typeSubjectId" validate:"required"`
	Mark          string `json:"defaultMark" validate:"max=8"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (bl *BulkLessons) Validate(ctx context.Context, validate *validator.Validate) error {
	bl.Mark = core.CleanString(bl.Mark)
	return validate.StructCtx(ctx, bl)
}

// UpdateLesson defines what may change on an existing lesson. Zero fields
// keep their current value.
type UpdateLesson struct {
	SubjectTypeID int     `json:"subjectTypeId"`
	Mark          *string `json:"mark"`
	Date          string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (ul *UpdateLesson) Validate(ctx context.Context, validate *validator.Validate) error {
	if ul.Mark != nil {
		mark := core.CleanString(*ul.Mark)
		ul.Mark = &mark
	}
	return validate.StructCtx(ctx, ul)
}

func (ul *UpdateLesson) Apply(l Lesson) Lesson {
	if ul.SubjectTypeID != 0 {
		l.SubjectTypeID = ul.SubjectTypeID
	}
	if ul.Mark != nil {
		l.Mark = *ul.Mark
	}
	if ul.Date != "" {
		l.Date, _ = time.Parse(DateFormat, ul.Date) // validated
	}
	return l
}

type NewActivity struct {
	StudentID  int    `json:"studentId" validate:"required"`
	SubjectID  int    `json:"subjectId" validate:"required"`
	TeacherID  int    `json:"teacherId" validate:"required"`
	TaskID     *int   `json:"taskId"`
	TaskTypeID *int   `json:"taskTypeId"`
	Meta       string `json:"meta"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Mark       string `json:"mark" validate:"max=8"`
	TaskNumber int    `json:"taskNumber"`
	Number     int    `json:"number"`
}

func (na *NewActivity) Validate(ctx context.Context, validate *validator.Validate) error {
	na.Meta = core.CleanString(na.Meta)
	na.Mark = core.CleanString(na.Mark)
	return validate.StructCtx(ctx, na)
}

func (na *NewActivity) Activity() Activity {
	date, _ := time.Parse(DateFormat, na.Date) // validated
	return Activity{
		StudentID:  na.StudentID,
		SubjectID:  na.SubjectID,
		TeacherID:  na.TeacherID,
		TaskID:     na.TaskID,
		TaskTypeID: na.TaskTypeID,
		Meta:       na.Meta,
		Date:       date,
		Mark:       na.Mark,
		TaskNumber: na.TaskNumber,
		Number:     na.Number,
	}
}

// UpdateActivity defines what may change on an existing activity. Nil/zero
// fields keep their current value.
type UpdateActivity struct {
	TaskID     *int    `json:"taskId"`
	TaskTypeID *int    `json:"taskTypeId"`
	Meta       *string `json:"meta"`
	Mark       *string `json:"mark"`
}

func (ua *UpdateActivity) Validate(ctx context.Context, validate *validator.Validate) error {
	if ua.Meta != nil {
		meta := core.CleanString(*ua.Meta)
		ua.Meta = &meta
	}
	if ua.Mark != nil {
		mark := core.CleanString(*ua.Mark)
		ua.Mark = &mark
	}
	return validate.StructCtx(ctx, ua)
}

func (ua *UpdateActivity) Apply(a Activity) Activity {
	if ua.TaskID != nil {
		a.TaskID = ua.TaskID
	}
	if ua.TaskTypeID != nil {
		a.TaskTypeID = ua.TaskTypeID
	}
	if ua.Meta != nil {
		a.Meta = *ua.Meta
	}
	if ua.Mark != nil {
		a.Mark = *ua.Mark
	}
	return a
}
