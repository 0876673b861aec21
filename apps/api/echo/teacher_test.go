package echoapi

import (
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/zhurnalapp/zhurnal/core/teacher"
)

func Test_teacherAPI_retrieveSelf(t *testing.T) {
	testDB.Reset()

	grp := createGroup(t, "ИВТб-3301", "3301")
	std := createStudent(t, "selfstd", "Иван", "Иванов", grp.ID)
	tch := createTeacher(t, "selftch", "Анна", "Петрова")

	tests := []httpTest{
		{name: "no token", wantCode: http.StatusUnauthorized, wantData: errMsg(t, "authentication required")},
		{name: "student token is rejected", token: getToken(t, std.Principal()), wantCode: http.StatusForbidden, wantData: errMsg(t, "access denied")},
		{name: "teacher token", token: getToken(t, tch.Principal()), wantCode: http.StatusOK, wantData: successData(t, tch)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/teachers/me", tt.token)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_teacherAPI_assignments(t *testing.T) {
	testDB.Reset()

	grp := createGroup(t, "ИВТб-3302", "3302")
	sub := createSubject(t, "Математический анализ")
	tch := createTeacher(t, "asgtch", "Дмитрий", "Волков")
	createStudent(t, "asgstd", "Пётр", "Сидоров", grp.ID)
	testDB.AddAssignment(tch.ID, sub.ID, grp.ID)

	token := getToken(t, tch.Principal())

	// subjects the teacher gives, with the groups they give them to
	req, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/teachers/%d/subjects", tch.ID), token)
	server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: successData(t, []teacher.Assignment{{
			SubjectID: sub.ID, SubjectTitle: sub.Title,
			GroupID: grp.ID, GroupTitle: grp.Title, GroupNumber: grp.Number,
		}}),
	}, rec)

	// the students a teacher sees for a subject; subjectId is mandatory
	req, rec = newAuthRequest(http.MethodGet, fmt.Sprintf("/teachers/%d/students", tch.ID), token)
	server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: errMsg(t, "subjectId is required")}, rec)

	req, rec = newAuthRequest(http.MethodGet, fmt.Sprintf("/teachers/%d/students?subjectId=%d", tch.ID, sub.ID), token)
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("students failed; code = %v; body %v", rec.Code, rec.Body.String())
	}

	// narrowing to a group the subject is not taught to yields nothing
	req, rec = newAuthRequest(http.MethodGet, fmt.Sprintf("/teachers/%d/students?subjectId=%d&groupId=999", tch.ID, sub.ID), token)
	server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: successData(t, []interface{}{})}, rec)
}

func Test_teacherAPI_noSelfDelete(t *testing.T) {
	testDB.Reset()

	tch := createTeacher(t, "deltch", "Ольга", "Морозова")
	other := createTeacher(t, "othertch", "Егор", "Васильев")
	token := getToken(t, tch.Principal())

	req, rec := newAuthRequest(http.MethodDelete, "/teachers/"+strconv.Itoa(tch.ID), token)
	server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: errMsg(t, "access denied")}, rec)

	req, rec = newAuthRequest(http.MethodDelete, "/teachers/"+strconv.Itoa(other.ID), token)
	server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: successMsg(t, "teacher deleted")}, rec)
}
