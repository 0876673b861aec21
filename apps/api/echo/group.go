package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zhurnalapp/zhurnal/core/group"
)

type groupAPI struct {
	deps ServerDeps
}

func registerGroupAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := groupAPI{deps: deps}

	ag := g.Group("", jwt)
	tg := ag.Group("", teacherMiddleware())

	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)
	ag.GET("/:id/students", api.queryStudents)
	ag.GET("/:id/subjects", api.querySubjects)
	ag.GET("/:id/stats", api.stats)

	tg.POST("", api.create)
	tg.PUT("/:id", api.update)
	tg.DELETE("/:id", api.destroy)
}

func (api *groupAPI) query(ctx echo.Context) error {
	gs, err := api.deps.GroupSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying groups")
	}
	return jsonData(ctx, http.StatusOK, gs)
}

func (api *groupAPI) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	g, err := api.deps.GroupSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding group by ID")
	}
	return jsonData(ctx, http.StatusOK, g)
}

func (api *groupAPI) queryStudents(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	ss, err := api.deps.StudentSvc.FilterByGroup(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "filtering students by group")
	}
	return jsonData(ctx, http.StatusOK, ss)
}

func (api *groupAPI) querySubjects(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	subs, err := api.deps.GroupSvc.QuerySubjects(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying group subjects")
	}
	return jsonData(ctx, http.StatusOK, subs)
}

func (api *groupAPI) stats(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	stats, err := api.deps.GroupSvc.Stats(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "aggregating group stats")
	}
	return jsonData(ctx, http.StatusOK, stats)
}

func (api *groupAPI) create(ctx echo.Context) error {
	var data group.NewGroup
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGroup")
	}
	reqCtx := ctx.Request().Context()
	if err := data.Validate(reqCtx, api.deps.Validate); err != nil {
		return err
	}

	g, err := api.deps.GroupSvc.Create(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating group")
	}
	return jsonData(ctx, http.StatusCreated, g)
}

func (api *groupAPI) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()
	g, err := api.deps.GroupSvc.GetByID(reqCtx, id)
	if err != nil {
		return errors.Wrap(err, "finding group by ID")
	}

	var data group.UpdateGroup
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGroup")
	}
	if err = data.Validate(reqCtx, g, api.deps.Validate); err != nil {
		return err
	}

	g, err = api.deps.GroupSvc.Update(reqCtx, g, data)
	if err != nil {
		return errors.Wrap(err, "updating group")
	}
	return jsonData(ctx, http.StatusOK, g)
}

func (api *groupAPI) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.deps.GroupSvc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting group")
	}
	return jsonMessage(ctx, http.StatusOK, "group deleted")
}
