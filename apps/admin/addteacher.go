package main

import (
	"context"

	"github.com/zhurnalapp/zhurnal/core"
	"github.com/zhurnalapp/zhurnal/core/teacher"
)

// addTeacher creates a teacher account. A teacher with the same login gets
// their names and password replaced instead.
func (cli *commandLine) addTeacher(login, first, last, middle, pwd string) error {
	ctx := context.Background()
	login = core.CleanString(login, true /* lower */)

	t, err := cli.teacherRepo.GetTeacherByLogin(ctx, login)
	if err != nil {
		if err != teacher.ErrNotFound {
			return err
		}
		t = teacher.Teacher{Login: login}
	}
	t.FirstName = core.CleanString(first)
	t.LastName = core.CleanString(last)
	t.MiddleName = core.CleanString(middle)
	if err := t.SetPassword(pwd); err != nil {
		return err
	}

	if t.ID == 0 {
		_, err = cli.teacherRepo.CreateTeacher(ctx, t)
	} else {
		_, err = cli.teacherRepo.UpdateTeacher(ctx, t)
	}
	return err
}
