package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/zhurnalapp/zhurnal/core/auth"
)

func Test_authAPI_login(t *testing.T) {
	grp := createGroup(t, "ИВТб-3301", "3301")
	createStudent(t, "ivanov01", "Иван", "Иванов", grp.ID, "s3cr3tpwd")
	createTeacher(t, "petrova", "Анна", "Петрова", "t3ach3rpwd")

	invalidCreds := errMsg(t, "invalid login or password")

	tests := []httpTest{
		{
			name: "student ok", path: "/auth/login/student",
			body: marchallObj(t, loginRequest{Login: "ivanov01", Password: "s3cr3tpwd"}), wantCode: http.StatusOK,
		},
		{
			name: "student login is case-insensitive", path: "/auth/login/student",
			body: marchallObj(t, loginRequest{Login: "IVANOV01", Password: "s3cr3tpwd"}), wantCode: http.StatusOK,
		},
		{
			name: "teacher ok", path: "/auth/login/teacher",
			body: marchallObj(t, loginRequest{Login: "petrova", Password: "t3ach3rpwd"}), wantCode: http.StatusOK,
		},
		{
			name: "student wrong password", path: "/auth/login/student",
			body:     marchallObj(t, loginRequest{Login: "ivanov01", Password: "nope"}),
			wantCode: http.StatusBadRequest, wantData: invalidCreds,
		},
		{
			name: "unknown login", path: "/auth/login/student",
			body:     marchallObj(t, loginRequest{Login: "ghost", Password: "s3cr3tpwd"}),
			wantCode: http.StatusBadRequest, wantData: invalidCreds,
		},
		{
			name: "roles do not cross: student on teacher endpoint", path: "/auth/login/teacher",
			body:     marchallObj(t, loginRequest{Login: "ivanov01", Password: "s3cr3tpwd"}),
			wantCode: http.StatusBadRequest, wantData: invalidCreds,
		},
		{
			name: "missing fields", path: "/auth/login/student",
			body:     marchallObj(t, loginRequest{}),
			wantCode: http.StatusBadRequest,
			wantData: errDetails(t, "invalid input", map[string]string{
				"login":    "this field is required",
				"password": "this field is required",
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, tt.path, tt.body)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var res struct {
					Success bool `json:"success"`
					Data    struct {
						Token string    `json:"token"`
						Role  auth.Role `json:"role"`
					} `json:"data"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
					t.Fatalf("unmarshalling login response: %v", err)
				}
				if res.Data.Token == "" {
					t.Error("login succeeded but no token was issued")
				}
				claims, err := auth.VerifyToken(res.Data.Token, []byte(testConf.SecretKey))
				if err != nil {
					t.Fatalf("VerifyToken(): %v", err)
				}
				if claims.Role != res.Data.Role {
					t.Errorf("token role = %v; response role %v", claims.Role, res.Data.Role)
				}
			}
		})
	}
}

func Test_authAPI_tokenGate(t *testing.T) {
	grp := createGroup(t, "ИВТб-3302", "3302")
	std := createStudent(t, "gatestd", "Пётр", "Сидоров", grp.ID)

	// issue an already-expired token
	auth.NowFunc = func() time.Time { return time.Now().Add(-24 * time.Hour) }
	expiredToken := getToken(t, std.Principal())
	auth.NowFunc = time.Now

	// /auth/me serves the stored record, group fields included
	std, err := studentRepo.GetStudentByID(context.Background(), std.ID)
	if err != nil {
		t.Fatalf("GetStudentByID(): %v", err)
	}

	tests := []httpTest{
		{
			name: "no token", path: "/auth/me",
			wantCode: http.StatusUnauthorized, wantData: errMsg(t, "authentication required"),
		},
		{
			name: "garbage token", path: "/auth/me", token: "not.a.token",
			wantCode: http.StatusUnauthorized, wantData: errMsg(t, "invalid token"),
		},
		{
			name: "expired token", path: "/auth/me", token: expiredToken,
			wantCode: http.StatusUnauthorized, wantData: errMsg(t, "token expired"),
		},
		{
			name: "valid token", path: "/auth/me", token: getToken(t, std.Principal()),
			wantCode: http.StatusOK, wantData: successData(t, meResponse{User: std, Role: auth.RoleStudent}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

// Tokens only carry claims; /auth/me must serve the stored profile, so a
// profile change shows up without re-logging in.
func Test_authAPI_me_servesFreshProfile(t *testing.T) {
	grp := createGroup(t, "ИВТб-3306", "3306")
	std := createStudent(t, "freshstd", "Игорь", "Новиков", grp.ID)
	tch := createTeacher(t, "freshtch", "Елена", "Павлова")
	stdToken := getToken(t, std.Principal())

	std.LastName = "Орлов"
	std.TgID = "@orlov"
	if _, err := studentRepo.UpdateStudent(context.Background(), std); err != nil {
		t.Fatalf("UpdateStudent(): %v", err)
	}
	refreshed, err := studentRepo.GetStudentByID(context.Background(), std.ID)
	if err != nil {
		t.Fatalf("GetStudentByID(): %v", err)
	}

	req, rec := newAuthRequest(http.MethodGet, "/auth/me", stdToken)
	server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: successData(t, meResponse{User: refreshed, Role: auth.RoleStudent}),
	}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/auth/me", getToken(t, tch.Principal()))
	server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: successData(t, meResponse{User: tch, Role: auth.RoleTeacher}),
	}, rec)
}

func Test_authAPI_forgedRoleRejected(t *testing.T) {
	token := getToken(t, auth.Principal{ID: 1, Login: "hacker", Role: auth.Role("admin"), Name: "H"})

	req, rec := newAuthRequest(http.MethodGet, "/auth/me", token)
	server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusForbidden,
		wantData: errMsg(t, "access denied"),
	}, rec)
}

func Test_authAPI_changePassword(t *testing.T) {
	grp := createGroup(t, "ИВТб-3303", "3303")
	std := createStudent(t, "pwdstd", "Олег", "Кузнецов", grp.ID, "oldpassword")
	token := getToken(t, std.Principal())

	tests := []httpTest{
		{
			name: "wrong current password",
			body: marchallObj(t, changePasswordRequest{CurrentPassword: "nope", NewPassword: "newpassword"}),
			wantCode: http.StatusBadRequest,
			wantData: errDetails(t, "invalid input", map[string]string{"currentPassword": "current password is incorrect"}),
		},
		{
			name: "new password too short",
			body: marchallObj(t, changePasswordRequest{CurrentPassword: "oldpassword", NewPassword: "new"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "ok",
			body: marchallObj(t, changePasswordRequest{CurrentPassword: "oldpassword", NewPassword: "newpassword"}),
			wantCode: http.StatusOK, wantData: successMsg(t, "password changed"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/auth/change-password", token, tt.body)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// old password no longer works; new one does
	req, rec := newRequest(http.MethodPost, "/auth/login/student", marchallObj(t, loginRequest{Login: "pwdstd", Password: "oldpassword"}))
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("old password still accepted; code = %v", rec.Code)
	}
	req, rec = newRequest(http.MethodPost, "/auth/login/student", marchallObj(t, loginRequest{Login: "pwdstd", Password: "newpassword"}))
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("new password rejected; code = %v; body %v", rec.Code, rec.Body.String())
	}
}

func Test_authAPI_logout(t *testing.T) {
	grp := createGroup(t, "ИВТб-3304", "3304")
	std := createStudent(t, "logoutstd", "Мария", "Смирнова", grp.ID)
	token := getToken(t, std.Principal())

	req, rec := newAuthRequest(http.MethodPost, "/auth/logout", token)
	server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: successMsg(t, "logged out")}, rec)

	// tokens are stateless; the token stays valid until expiry
	req, rec = newAuthRequest(http.MethodGet, "/auth/me", token)
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("token invalidated by logout; code = %v", rec.Code)
	}
}

func Test_authAPI_register(t *testing.T) {
	grp := createGroup(t, "ИВТб-3305", "3305")
	std := createStudent(t, "regstd", "Егор", "Васильев", grp.ID)
	tch := createTeacher(t, "regtch", "Ольга", "Морозова")

	studentToken := getToken(t, std.Principal())
	teacherToken := getToken(t, tch.Principal())

	newStd := func(login string) []byte {
		return marchallObj(t, map[string]interface{}{
			"login": login, "password": "s3cr3tpwd",
			"firstName": "Никита", "lastName": "Фёдоров", "groupId": grp.ID,
		})
	}

	tests := []httpTest{
		{
			name: "auth required", path: "/auth/register/student", body: newStd("newbie"),
			wantCode: http.StatusUnauthorized, wantData: errMsg(t, "authentication required"),
		},
		{
			name: "students cannot register accounts", path: "/auth/register/student",
			token: studentToken, body: newStd("newbie"),
			wantCode: http.StatusForbidden, wantData: errMsg(t, "access denied"),
		},
		{
			name: "teacher registers student", path: "/auth/register/student",
			token: teacherToken, body: newStd("newbie"),
			wantCode: http.StatusCreated,
		},
		{
			name: "duplicate login", path: "/auth/register/student",
			token: teacherToken, body: newStd("regstd"),
			wantCode: http.StatusBadRequest, wantData: errMsg(t, "a student with this login already exists"),
		},
		{
			name: "teacher registers teacher", path: "/auth/register/teacher",
			token: teacherToken,
			body: marchallObj(t, map[string]interface{}{
				"login": "newtch", "password": "s3cr3tpwd",
				"firstName": "Дмитрий", "lastName": "Волков",
			}),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, tt.path, tt.token, tt.body)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
