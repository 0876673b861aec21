package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/zhurnalapp/zhurnal/core/student"
	"github.com/zhurnalapp/zhurnal/core/teacher"
	dummydb "github.com/zhurnalapp/zhurnal/storage/database/dummy"
)

var (
	studentRepo student.Repository
	teacherRepo teacher.Repository
)

func setup(t *testing.T) *commandLine {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup(): %v", err)
	}
	studentRepo = dummydb.NewStudentRepository(db)
	teacherRepo = dummydb.NewTeacherRepository(db)

	return &commandLine{
		studentRepo: studentRepo,
		teacherRepo: teacherRepo,
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version", "fix": // pass
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_addTeacher(t *testing.T) {
	cli := setup(t)

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("s3cr3tpwd"), nil }

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "missing names", args: []string{"addteacher", "-login", "petrova"}, wantErr: errHelp},
		{name: "ok", args: []string{"addteacher", "-login", "Petrova", "-first", "Анна", "-last", "Петрова"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	// the login is cleaned and lowercased; the password is usable
	created, err := teacherRepo.GetTeacherByLogin(context.Background(), "petrova")
	if err != nil {
		t.Fatalf("GetTeacherByLogin(): %v", err)
	}
	if !created.CheckPassword("s3cr3tpwd") {
		t.Error("created teacher's password does not check out")
	}

	// re-running with the same login replaces instead of duplicating
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("an0therpwd"), nil }
	if err := cli.run([]string{"admin", "addteacher", "-login", "petrova", "-first", "Анна", "-last", "Сидорова"}); err != nil {
		t.Fatalf("cli.run(): %v", err)
	}
	updated, err := teacherRepo.GetTeacherByLogin(context.Background(), "petrova")
	if err != nil {
		t.Fatalf("GetTeacherByLogin(): %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("re-adding duplicated the teacher: ID %v != %v", updated.ID, created.ID)
	}
	if updated.LastName != "Сидорова" || !updated.CheckPassword("an0therpwd") {
		t.Errorf("re-adding did not replace the record: %+v", updated)
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	std := student.Student{Login: "ivanov01", FirstName: "Иван", LastName: "Иванов"}
	if err := std.SetPassword("oldpassword"); err != nil {
		t.Fatalf("SetPassword(): %v", err)
	}
	std, err := studentRepo.CreateStudent(context.Background(), std)
	if err != nil {
		t.Fatalf("CreateStudent(): %v", err)
	}

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("newpassword"), nil }

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "bad role", args: []string{"resetpassword", "-role", "admin", "-login", "ivanov01"}, wantErr: errHelp},
		{name: "student not found", args: []string{"resetpassword", "-role", "student", "-login", "ghost"}, wantErr: student.ErrNotFound},
		{name: "teacher not found", args: []string{"resetpassword", "-role", "teacher", "-login", "ghost"}, wantErr: teacher.ErrNotFound},
		{name: "ok", args: []string{"resetpassword", "-role", "student", "-login", "ivanov01"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	refreshed, err := studentRepo.GetStudentByID(context.Background(), std.ID)
	if err != nil {
		t.Fatalf("GetStudentByID(): %v", err)
	}
	if bytes.Equal(refreshed.PasswordHash, std.PasswordHash) {
		t.Error("failed to update new password")
	}
	if !refreshed.CheckPassword("newpassword") {
		t.Error("new password does not check out")
	}
}
