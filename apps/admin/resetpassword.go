package main

import (
	"context"

	"github.com/zhurnalapp/zhurnal/core"
)

func (cli *commandLine) resetPassword(role, login, pwd string) error {
	ctx := context.Background()
	login = core.CleanString(login, true /* lower */)

	if role == "student" {
		s, err := cli.studentRepo.GetStudentByLogin(ctx, login)
		if err != nil {
			return err
		}
		if err := s.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.studentRepo.UpdateStudent(ctx, s)
		return err
	}

	t, err := cli.teacherRepo.GetTeacherByLogin(ctx, login)
	if err != nil {
		return err
	}
	if err := t.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.teacherRepo.UpdateTeacher(ctx, t)
	return err
}
