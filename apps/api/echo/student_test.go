package echoapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/zhurnalapp/zhurnal/core/student"
)

func Test_studentAPI_public(t *testing.T) {
	testDB.Reset()

	grp := createGroup(t, "ИВТб-3301", "3301")
	std := createStudent(t, "pubstd", "Иван", "Иванов", grp.ID)
	std.VkID = "vk123"
	std.TgID = "@ivanov"
	std.VyatsuMail = "ivanov@vyatsu.ru"
	if _, err := studentRepo.UpdateStudent(context.Background(), std); err != nil {
		t.Fatalf("UpdateStudent(): %v", err)
	}

	want := student.PublicStudent{
		ID:          std.ID,
		LastName:    "Иванов",
		FirstName:   "Иван",
		GroupTitle:  grp.Title,
		GroupNumber: grp.Number,
	}

	tests := []httpTest{
		{
			name: "all students", path: "/students/public",
			wantCode: http.StatusOK, wantData: successData(t, []student.PublicStudent{want}),
		},
		{
			name: "by group", path: "/students/public/group/" + strconv.Itoa(grp.ID),
			wantCode: http.StatusOK, wantData: successData(t, []student.PublicStudent{want}),
		},
		{
			name: "by group (empty)", path: "/students/public/group/999",
			wantCode: http.StatusOK, wantData: successData(t, []student.PublicStudent{}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			// credentials and contacts never leak through the public listing
			for _, fld := range []string{"login", "vkId", "tgId", "vyatsuMail", "password"} {
				if strings.Contains(rec.Body.String(), fld) {
					t.Errorf("public listing leaks %q: %v", fld, rec.Body.String())
				}
			}
		})
	}
}

func Test_studentAPI_roleGate(t *testing.T) {
	testDB.Reset()

	grp := createGroup(t, "ИВТб-3302", "3302")
	std := createStudent(t, "gatestd", "Пётр", "Сидоров", grp.ID)
	tch := createTeacher(t, "gatetch", "Анна", "Петрова")

	studentToken := getToken(t, std.Principal())
	teacherToken := getToken(t, tch.Principal())
	forbidden := errMsg(t, "access denied")

	tests := []httpTest{
		{name: "list requires auth", method: http.MethodGet, path: "/students", wantCode: http.StatusUnauthorized},
		{name: "list requires teacher", method: http.MethodGet, path: "/students", token: studentToken, wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "teacher lists", method: http.MethodGet, path: "/students", token: teacherToken, wantCode: http.StatusOK},
		{name: "student cannot retrieve others", method: http.MethodGet, path: "/students/" + strconv.Itoa(std.ID), token: studentToken, wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "student cannot delete", method: http.MethodDelete, path: "/students/" + strconv.Itoa(std.ID), token: studentToken, wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "/me rejects teacher token", method: http.MethodGet, path: "/students/me", token: teacherToken, wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "/me serves the student", method: http.MethodGet, path: "/students/me", token: studentToken, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentAPI_crud(t *testing.T) {
	testDB.Reset()

	grp := createGroup(t, "ИВТб-3303", "3303")
	tch := createTeacher(t, "crudtch", "Ольга", "Морозова")
	token := getToken(t, tch.Principal())

	// create
	body := marchallObj(t, map[string]interface{}{
		"login": "crudstd", "password": "s3cr3tpwd",
		"firstName": "Никита", "lastName": "Фёдоров", "groupId": grp.ID,
	})
	req, rec := newAuthRequest(http.MethodPost, "/students", token, body)
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed; code = %v; body %v", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "passwordHash") {
		t.Errorf("create response leaks password hash: %v", rec.Body.String())
	}

	created, err := studentRepo.GetStudentByLogin(context.Background(), "crudstd")
	if err != nil {
		t.Fatalf("GetStudentByLogin(): %v", err)
	}
	path := "/students/" + strconv.Itoa(created.ID)

	// retrieve
	req, rec = newAuthRequest(http.MethodGet, path, token)
	server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: successData(t, created)}, rec)

	// update: empty fields keep their current value
	req, rec = newAuthRequest(http.MethodPut, path, token, marchallObj(t, map[string]interface{}{"tgId": "@fedorov"}))
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update failed; code = %v; body %v", rec.Code, rec.Body.String())
	}
	updated, err := studentRepo.GetStudentByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetStudentByID(): %v", err)
	}
	if updated.TgID != "@fedorov" {
		t.Errorf("tgId = %q; want %q", updated.TgID, "@fedorov")
	}
	if updated.Login != created.Login || updated.FirstName != created.FirstName || updated.GroupID != created.GroupID {
		t.Errorf("update clobbered untouched fields: %+v", updated)
	}

	// delete
	req, rec = newAuthRequest(http.MethodDelete, path, token)
	server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: successMsg(t, "student deleted")}, rec)

	// gone
	req, rec = newAuthRequest(http.MethodGet, path, token)
	server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: errMsg(t, "student not found")}, rec)
}

func Test_studentAPI_fullInfo(t *testing.T) {
	testDB.Reset()

	grp := createGroup(t, "ИВТб-3304", "3304")
	sub := createSubject(t, "Математический анализ")
	typeID := testDB.AddSubjectType("Лекция")
	std := createStudent(t, "fullstd", "Мария", "Смирнова", grp.ID)
	tch := createTeacher(t, "fulltch", "Дмитрий", "Волков")

	createLesson(t, std.ID, sub.ID, typeID, "5", "2026-02-02")
	createActivity(t, std.ID, sub.ID, tch.ID, "4", "2026-02-03")

	req, rec := newAuthRequest(http.MethodGet, "/students/"+strconv.Itoa(std.ID)+"/full", getToken(t, tch.Principal()))
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %v", rec.Code, rec.Body.String())
	}
	for _, want := range []string{`"lessons"`, `"activities"`, sub.Title, `"mark":"5"`, `"mark":"4"`} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("full info missing %v: %v", want, rec.Body.String())
		}
	}
}
