package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zhurnalapp/zhurnal/core/auth"
	"github.com/zhurnalapp/zhurnal/core/student"
)

type studentAPI struct {
	deps ServerDeps
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := studentAPI{deps: deps}

	// un-authed endpoints: public listings carry names and groups only
	g.GET("/public", api.queryPublic)
	g.GET("/public/group/:groupId", api.queryPublicByGroup)

	// authed endpoints
	ag := g.Group("", jwt)
	ag.GET("/me", api.retrieveSelf)

	tg := ag.Group("", teacherMiddleware())
	tg.GET("", api.query)
	tg.POST("", api.create)
	tg.GET("/group/:groupId", api.queryByGroup)
	tg.GET("/:id", api.retrieve)
	tg.GET("/:id/full", api.retrieveFull)
	tg.PUT("/:id", api.update)
	tg.DELETE("/:id", api.destroy)
}

func publicStudents(ss []student.Student) []student.PublicStudent {
	ps := make([]student.PublicStudent, 0, len(ss))
	for i := range ss {
		ps = append(ps, ss[i].Public())
	}
	return ps
}

// fullInfo is a student with their whole journal attached.
type fullInfo struct {
	Student    student.Student `json:"student"`
	Lessons    interface{}     `json:"lessons"`
	Activities interface{}     `json:"activities"`
}

func (api *studentAPI) fullInfo(ctx echo.Context, s student.Student) (fullInfo, error) {
	reqCtx := ctx.Request().Context()
	lessons, err := api.deps.GradeSvc.FilterLessonsByStudent(reqCtx, s.ID)
	if err != nil {
		return fullInfo{}, errors.Wrap(err, "filtering lessons by student")
	}
	activities, err := api.deps.GradeSvc.FilterActivitiesByStudent(reqCtx, s.ID)
	if err != nil {
		return fullInfo{}, errors.Wrap(err, "filtering activities by student")
	}
	return fullInfo{Student: s, Lessons: lessons, Activities: activities}, nil
}

func (api *studentAPI) queryPublic(ctx echo.Context) error {
	ss, err := api.deps.StudentSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return jsonData(ctx, http.StatusOK, publicStudents(ss))
}

func (api *studentAPI) queryPublicByGroup(ctx echo.Context) error {
	groupID, err := intParam(ctx, "groupId")
	if err != nil {
		return err
	}
	ss, err := api.deps.StudentSvc.FilterByGroup(ctx.Request().Context(), groupID)
	if err != nil {
		return errors.Wrap(err, "filtering students by group")
	}
	return jsonData(ctx, http.StatusOK, publicStudents(ss))
}

// retrieveSelf serves the caller's own record with their journal; only a
// student token qualifies.
func (api *studentAPI) retrieveSelf(ctx echo.Context) error {
	p, err := principalFromContext(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context principal")
	}
	if p.Role != auth.RoleStudent {
		return errHTTPForbidden
	}

	s, err := api.deps.StudentSvc.GetByID(ctx.Request().Context(), p.ID)
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	info, err := api.fullInfo(ctx, s)
	if err != nil {
		return err
	}
	return jsonData(ctx, http.StatusOK, info)
}

func (api *studentAPI) query(ctx echo.Context) error {
	ss, err := api.deps.StudentSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return jsonData(ctx, http.StatusOK, ss)
}

func (api *studentAPI) queryByGroup(ctx echo.Context) error {
	groupID, err := intParam(ctx, "groupId")
	if err != nil {
		return err
	}
	ss, err := api.deps.StudentSvc.FilterByGroup(ctx.Request().Context(), groupID)
	if err != nil {
		return errors.Wrap(err, "filtering students by group")
	}
	return jsonData(ctx, http.StatusOK, ss)
}

func (api *studentAPI) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	s, err := api.deps.StudentSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	return jsonData(ctx, http.StatusOK, s)
}

func (api *studentAPI) retrieveFull(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	s, err := api.deps.StudentSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	info, err := api.fullInfo(ctx, s)
	if err != nil {
		return err
	}
	return jsonData(ctx, http.StatusOK, info)
}

func (api *studentAPI) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	reqCtx := ctx.Request().Context()
	if err := data.Validate(reqCtx, api.deps.Validate, api.deps.StudentSvc); err != nil {
		return err
	}

	s, err := api.deps.StudentSvc.Create(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return jsonData(ctx, http.StatusCreated, s)
}

func (api *studentAPI) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()
	s, err := api.deps.StudentSvc.GetByID(reqCtx, id)
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}

	var data student.UpdateStudent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err = data.Validate(reqCtx, s, api.deps.Validate, api.deps.StudentSvc); err != nil {
		return err
	}

	s, err = api.deps.StudentSvc.Update(reqCtx, s, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return jsonData(ctx, http.StatusOK, s)
}

func (api *studentAPI) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.deps.StudentSvc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return jsonMessage(ctx, http.StatusOK, "student deleted")
}
