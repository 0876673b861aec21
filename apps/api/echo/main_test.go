package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/zhurnalapp/zhurnal/core"
	"github.com/zhurnalapp/zhurnal/core/auth"
	"github.com/zhurnalapp/zhurnal/core/grade"
	"github.com/zhurnalapp/zhurnal/core/group"
	"github.com/zhurnalapp/zhurnal/core/student"
	"github.com/zhurnalapp/zhurnal/core/subject"
	"github.com/zhurnalapp/zhurnal/core/teacher"
	emailsvc "github.com/zhurnalapp/zhurnal/services/email"
	logsvc "github.com/zhurnalapp/zhurnal/services/logger"
	dummydb "github.com/zhurnalapp/zhurnal/storage/database/dummy"
)

var (
	testConf *core.Config
	testDB   *dummydb.DB
	server   *Server

	studentRepo student.Repository
	teacherRepo teacher.Repository
	groupRepo   group.Repository
	subjectRepo subject.Repository
	gradeRepo   grade.Repository
)

func TestMain(m *testing.M) {
	testConf = &core.Config{
		TestMode:  true,
		Env:       "TEST",
		AppName:   "Zhurnal",
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			JWTExpirationDelta: 10 * time.Minute,
		},
	}

	var err error
	if testDB, err = dummydb.Open(); err != nil {
		log.Fatalf("dummydb.Open(): %v", err)
	}
	studentRepo = dummydb.NewStudentRepository(testDB)
	teacherRepo = dummydb.NewTeacherRepository(testDB)
	groupRepo = dummydb.NewGroupRepository(testDB)
	subjectRepo = dummydb.NewSubjectRepository(testDB)
	gradeRepo = dummydb.NewGradeRepository(testDB)

	mailSvc := emailsvc.NewConsoleServiceMock(testConf)
	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), testConf)
	logger.Enable(false)

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)

	server = NewServer(ServerDeps{
		Conf:           testConf,
		Logger:         logger,
		StudentSvc:     student.NewService(testConf, studentRepo, mailSvc),
		TeacherSvc:     teacher.NewService(testConf, teacherRepo, mailSvc),
		GroupSvc:       group.NewService(groupRepo),
		SubjectSvc:     subject.NewService(subjectRepo),
		GradeSvc:       grade.NewService(gradeRepo),
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})

	os.Exit(m.Run())
}

func newTestTranslator() ut.Translator {
	enLoc := en.New()
	translator, _ := ut.New(enLoc, enLoc).GetTranslator("en")
	return translator
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, p auth.Principal) string {
	token, err := auth.GenerateToken(auth.NewClaims(p, testConf), []byte(testConf.SecretKey))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

// successData wraps an expected payload in the response envelope.
func successData(t *testing.T, data interface{}) []byte {
	return marchallObj(t, successResponse{Success: true, Data: data})
}

func successMsg(t *testing.T, msg string) []byte {
	return marchallObj(t, successResponse{Success: true, Message: msg})
}

func errMsg(t *testing.T, msg string) []byte {
	return marchallObj(t, errorResponse{Message: msg})
}

func errDetails(t *testing.T, msg string, details map[string]string) []byte {
	return marchallObj(t, errorResponse{Message: msg, Details: details})
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// --- seed helpers ---

func createGroup(t *testing.T, title, number string) group.Group {
	g, err := groupRepo.CreateGroup(context.Background(), group.Group{Title: title, Number: number})
	if err != nil {
		t.Fatalf("createGroup(): %v", err)
	}
	return g
}

func createSubject(t *testing.T, title string) subject.Subject {
	s, err := subjectRepo.CreateSubject(context.Background(), subject.Subject{Title: title})
	if err != nil {
		t.Fatalf("createSubject(): %v", err)
	}
	return s
}

func createStudent(t *testing.T, login, first, last string, groupID int, pwd ...string) student.Student {
	s := student.Student{Login: login, FirstName: first, LastName: last, GroupID: groupID}
	if len(pwd) > 0 {
		if err := s.SetPassword(pwd[0]); err != nil {
			t.Fatalf("createStudent(): %v", err)
		}
	}
	s, err := studentRepo.CreateStudent(context.Background(), s)
	if err != nil {
		t.Fatalf("createStudent(): %v", err)
	}
	return s
}

func createTeacher(t *testing.T, login, first, last string, pwd ...string) teacher.Teacher {
	tr := teacher.Teacher{Login: login, FirstName: first, LastName: last}
	if len(pwd) > 0 {
		if err := tr.SetPassword(pwd[0]); err != nil {
			t.Fatalf("createTeacher(): %v", err)
		}
	}
	tr, err := teacherRepo.CreateTeacher(context.Background(), tr)
	if err != nil {
		t.Fatalf("createTeacher(): %v", err)
	}
	return tr
}

func createLesson(t *testing.T, studentID, subjectID, subjectTypeID int, mark, date string) grade.Lesson {
	d, err := time.Parse(grade.DateFormat, date)
	if err != nil {
		t.Fatalf("createLesson(): %v", err)
	}
	l, err := gradeRepo.CreateLesson(context.Background(), grade.Lesson{
		StudentID:     studentID,
		SubjectID:     subjectID,
		SubjectTypeID: subjectTypeID,
		Mark:          mark,
		Date:          d,
	})
	if err != nil {
		t.Fatalf("createLesson(): %v", err)
	}
	return l
}

func createActivity(t *testing.T, studentID, subjectID, teacherID int, mark, date string) grade.Activity {
	d, err := time.Parse(grade.DateFormat, date)
	if err != nil {
		t.Fatalf("createActivity(): %v", err)
	}
	a, err := gradeRepo.CreateActivity(context.Background(), grade.Activity{
		StudentID: studentID,
		SubjectID: subjectID,
		TeacherID: teacherID,
		Mark:      mark,
		Date:      d,
	})
	if err != nil {
		t.Fatalf("createActivity(): %v", err)
	}
	return a
}
