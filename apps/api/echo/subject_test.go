package echoapi

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/zhurnalapp/zhurnal/core/subject"
)

func Test_subjectAPI(t *testing.T) {
	testDB.Reset()

	grp := createGroup(t, "ИВТб-3301", "3301")
	tch := createTeacher(t, "subtch", "Анна", "Петрова")
	std := createStudent(t, "substd", "Иван", "Иванов", grp.ID)
	teacherToken := getToken(t, tch.Principal())
	studentToken := getToken(t, std.Principal())

	// create (teacher only)
	req, rec := newAuthRequest(http.MethodPost, "/subjects", studentToken, marchallObj(t, subject.NewSubject{Title: "Физика"}))
	server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: errMsg(t, "access denied")}, rec)

	req, rec = newAuthRequest(http.MethodPost, "/subjects", teacherToken, marchallObj(t, subject.NewSubject{Title: "Физика"}))
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed; code = %v; body %v", rec.Code, rec.Body.String())
	}

	sub := subject.Subject{ID: 1, Title: "Физика"}
	testDB.AddAssignment(tch.ID, sub.ID, grp.ID)

	// read (any authenticated user)
	req, rec = newAuthRequest(http.MethodGet, "/subjects", studentToken)
	server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: successData(t, []subject.Subject{sub})}, rec)

	// who teaches it, and to whom
	req, rec = newAuthRequest(http.MethodGet, "/subjects/1/teachers", studentToken)
	server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: successData(t, []subject.SubjectTeacher{{
			TeacherID: tch.ID, TeacherName: tch.Name(), GroupID: grp.ID, GroupTitle: grp.Title,
		}}),
	}, rec)
	req, rec = newAuthRequest(http.MethodGet, "/subjects/1/groups", studentToken)
	server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: successData(t, []subject.SubjectGroup{{
			GroupID: grp.ID, GroupTitle: grp.Title, GroupNumber: grp.Number,
		}}),
	}, rec)

	// update
	req, rec = newAuthRequest(http.MethodPut, "/subjects/1", teacherToken, marchallObj(t, subject.UpdateSubject{Title: "Общая физика"}))
	server.ServeHTTP(rec, req)
	sub.Title = "Общая физика"
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: successData(t, sub)}, rec)

	// delete
	req, rec = newAuthRequest(http.MethodDelete, "/subjects/"+strconv.Itoa(sub.ID), teacherToken)
	server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: successMsg(t, "subject deleted")}, rec)
	req, rec = newAuthRequest(http.MethodGet, "/subjects/1", teacherToken)
	server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: errMsg(t, "subject not found")}, rec)
}
