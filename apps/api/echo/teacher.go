package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zhurnalapp/zhurnal/core/auth"
	"github.com/zhurnalapp/zhurnal/core/teacher"
)

type teacherAPI struct {
	deps ServerDeps
}

func registerTeacherAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := teacherAPI{deps: deps}

	ag := g.Group("", jwt)
	ag.GET("/me", api.retrieveSelf)

	tg := ag.Group("", teacherMiddleware())
	tg.GET("", api.query)
	tg.GET("/:id", api.retrieve)
	tg.GET("/:id/subjects", api.querySubjects)
	tg.GET("/:id/students", api.queryStudents)
	tg.GET("/:id/activities", api.queryActivities)
	tg.PUT("/:id", api.update)
	tg.DELETE("/:id", api.destroy)
}

// retrieveSelf serves the caller's own record; only a teacher token
// qualifies.
func (api *teacherAPI) retrieveSelf(ctx echo.Context) error {
	p, err := principalFromContext(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context principal")
	}
	if p.Role != auth.RoleTeacher {
		return errHTTPForbidden
	}

	t, err := api.deps.TeacherSvc.GetByID(ctx.Request().Context(), p.ID)
	if err != nil {
		return errors.Wrap(err, "finding teacher by ID")
	}
	return jsonData(ctx, http.StatusOK, t)
}

func (api *teacherAPI) query(ctx echo.Context) error {
	ts, err := api.deps.TeacherSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return jsonData(ctx, http.StatusOK, ts)
}

func (api *teacherAPI) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	t, err := api.deps.TeacherSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding teacher by ID")
	}
	return jsonData(ctx, http.StatusOK, t)
}

func (api *teacherAPI) querySubjects(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	as, err := api.deps.TeacherSvc.QueryAssignments(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying teacher assignments")
	}
	return jsonData(ctx, http.StatusOK, as)
}

// queryStudents lists the students a teacher sees for one of their
// subjects, optionally narrowed to one group.
func (api *teacherAPI) queryStudents(ctx echo.Context) error {
	if _, err := intParam(ctx, "id"); err != nil {
		return err
	}
	subjectID, err := intQuery(ctx, "subjectId")
	if err != nil {
		return err
	}
	if subjectID == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "subjectId is required")
	}
	groupID, err := intQuery(ctx, "groupId")
	if err != nil {
		return err
	}

	ss, err := api.deps.StudentSvc.FilterBySubject(ctx.Request().Context(), *subjectID, groupID)
	if err != nil {
		return errors.Wrap(err, "filtering students by subject")
	}
	return jsonData(ctx, http.StatusOK, ss)
}

func (api *teacherAPI) queryActivities(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	subjectID, err := intQuery(ctx, "subjectId")
	if err != nil {
		return err
	}
	groupID, err := intQuery(ctx, "groupId")
	if err != nil {
		return err
	}

	as, err := api.deps.GradeSvc.ActivityJournal(ctx.Request().Context(), id, subjectID, groupID)
	if err != nil {
		return errors.Wrap(err, "querying activity journal")
	}
	return jsonData(ctx, http.StatusOK, as)
}

func (api *teacherAPI) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()
	t, err := api.deps.TeacherSvc.GetByID(reqCtx, id)
	if err != nil {
		return errors.Wrap(err, "finding teacher by ID")
	}

	var data teacher.UpdateTeacher
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}
	if err = data.Validate(reqCtx, t, api.deps.Validate, api.deps.TeacherSvc); err != nil {
		return err
	}

	t, err = api.deps.TeacherSvc.Update(reqCtx, t, data)
	if err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	return jsonData(ctx, http.StatusOK, t)
}

func (api *teacherAPI) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	// no self-service deletion
	p, err := principalFromContext(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context principal")
	}
	if p.ID == id {
		return errHTTPForbidden
	}

	if err = api.deps.TeacherSvc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return jsonMessage(ctx, http.StatusOK, "teacher deleted")
}
