package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zhurnalapp/zhurnal/core/subject"
)

type subjectAPI struct {
	deps ServerDeps
}

func registerSubjectAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := subjectAPI{deps: deps}

	ag := g.Group("", jwt)
	tg := ag.Group("", teacherMiddleware())

	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)
	ag.GET("/:id/teachers", api.queryTeachers)
	ag.GET("/:id/groups", api.queryGroups)

	tg.POST("", api.create)
	tg.PUT("/:id", api.update)
	tg.DELETE("/:id", api.destroy)
}

func (api *subjectAPI) query(ctx echo.Context) error {
	subs, err := api.deps.SubjectSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return jsonData(ctx, http.StatusOK, subs)
}

func (api *subjectAPI) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	s, err := api.deps.SubjectSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding subject by ID")
	}
	return jsonData(ctx, http.StatusOK, s)
}

func (api *subjectAPI) queryTeachers(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	ts, err := api.deps.SubjectSvc.QueryTeachers(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying subject teachers")
	}
	return jsonData(ctx, http.StatusOK, ts)
}

func (api *subjectAPI) queryGroups(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	gs, err := api.deps.SubjectSvc.QueryGroups(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying subject groups")
	}
	return jsonData(ctx, http.StatusOK, gs)
}

func (api *subjectAPI) create(ctx echo.Context) error {
	var data subject.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	reqCtx := ctx.Request().Context()
	if err := data.Validate(reqCtx, api.deps.Validate); err != nil {
		return err
	}

	s, err := api.deps.SubjectSvc.Create(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return jsonData(ctx, http.StatusCreated, s)
}

func (api *subjectAPI) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()
	s, err := api.deps.SubjectSvc.GetByID(reqCtx, id)
	if err != nil {
		return errors.Wrap(err, "finding subject by ID")
	}

	var data subject.UpdateSubject
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubject")
	}
	if err = data.Validate(reqCtx, api.deps.Validate); err != nil {
		return err
	}

	s, err = api.deps.SubjectSvc.Update(reqCtx, s, data)
	if err != nil {
		return errors.Wrap(err, "updating subject")
	}
	return jsonData(ctx, http.StatusOK, s)
}

func (api *subjectAPI) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.deps.SubjectSvc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return jsonMessage(ctx, http.StatusOK, "subject deleted")
}
