package dummydb

import (
	"sync"

	"github.com/zhurnalapp/zhurnal/core/grade"
	"github.com/zhurnalapp/zhurnal/core/group"
	"github.com/zhurnalapp/zhurnal/core/student"
	"github.com/zhurnalapp/zhurnal/core/subject"
	"github.com/zhurnalapp/zhurnal/core/teacher"
)

type (
	DB struct {
		student *studentTable
		teacher *teacherTable
		group   *groupTable
		subject *subjectTable
		grade   *gradeTable
		assoc   *assocTable

		// FailLessonCreate, when set, fails the insertion of a matching
		// lesson. Lets tests force a mid-batch failure.
		FailLessonCreate func(l grade.Lesson) error
	}

	studentTable struct {
		sync.RWMutex
		table   map[int]*student.Student
		pkCount int
	}

	teacherTable struct {
		sync.RWMutex
		table   map[int]*teacher.Teacher
		pkCount int
	}

	groupTable struct {
		sync.RWMutex
		table   map[int]*group.Group
		pkCount int
	}

	subjectTable struct {
		sync.RWMutex
		table        map[int]*subject.Subject
		subjectTypes map[int]string
		taskTypes    map[int]string
		pkCount      int
		typePKCount  int
	}

	gradeTable struct {
		sync.RWMutex
		lessons    map[int]*grade.Lesson
		activities map[int]*grade.Activity
		lessonPK   int
		activityPK int
	}

	// Assignment rows tie a teacher, a subject and a group together.
	Assignment struct {
		TeacherID int
		SubjectID int
		GroupID   int
	}

	assocTable struct {
		sync.RWMutex
		rows []Assignment
	}
)

func Open() (*DB, error) {
	db := &DB{
		student: &studentTable{table: make(map[int]*student.Student)},
		teacher: &teacherTable{table: make(map[int]*teacher.Teacher)},
		group:   &groupTable{table: make(map[int]*group.Group)},
		subject: &subjectTable{
			table:        make(map[int]*subject.Subject),
			subjectTypes: make(map[int]string),
			taskTypes:    make(map[int]string),
		},
		grade: &gradeTable{
			lessons:    make(map[int]*grade.Lesson),
			activities: make(map[int]*grade.Activity),
		},
		assoc: &assocTable{},
	}
	return db, nil
}

// AddAssignment records that a teacher gives a subject to a group.
func (db *DB) AddAssignment(teacherID, subjectID, groupID int) {
	db.assoc.Lock()
	defer db.assoc.Unlock()
	db.assoc.rows = append(db.assoc.rows, Assignment{TeacherID: teacherID, SubjectID: subjectID, GroupID: groupID})
}

// AddSubjectType registers a form of teaching and returns its id.
func (db *DB) AddSubjectType(title string) int {
	db.subject.Lock()
	defer db.subject.Unlock()
	db.subject.typePKCount++
	db.subject.subjectTypes[db.subject.typePKCount] = title
	return db.subject.typePKCount
}

// AddTaskType registers a kind of graded work and returns its id.
func (db *DB) AddTaskType(title string) int {
	db.subject.Lock()
	defer db.subject.Unlock()
	db.subject.typePKCount++
	db.subject.taskTypes[db.subject.typePKCount] = title
	return db.subject.typePKCount
}

// Reset empties every table. Tests use it to start from a clean slate.
func (db *DB) Reset() {
	db.student.Lock()
	db.student.table = make(map[int]*student.Student)
	db.student.pkCount = 0
	db.student.Unlock()

	db.teacher.Lock()
	db.teacher.table = make(map[int]*teacher.Teacher)
	db.teacher.pkCount = 0
	db.teacher.Unlock()

	db.group.Lock()
	db.group.table = make(map[int]*group.Group)
	db.group.pkCount = 0
	db.group.Unlock()

	db.subject.Lock()
	db.subject.table = make(map[int]*subject.Subject)
	db.subject.subjectTypes = make(map[int]string)
	db.subject.taskTypes = make(map[int]string)
	db.subject.pkCount = 0
	db.subject.typePKCount = 0
	db.subject.Unlock()

	db.grade.Lock()
	db.grade.lessons = make(map[int]*grade.Lesson)
	db.grade.activities = make(map[int]*grade.Activity)
	db.grade.lessonPK = 0
	db.grade.activityPK = 0
	db.grade.Unlock()

	db.assoc.Lock()
	db.assoc.rows = nil
	db.assoc.Unlock()

	db.FailLessonCreate = nil
}

func (db *DB) assignments() []Assignment {
	db.assoc.RLock()
	defer db.assoc.RUnlock()
	rows := make([]Assignment, len(db.assoc.rows))
	copy(rows, db.assoc.rows)
	return rows
}
