package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zhurnalapp/zhurnal/core/grade"
)

type gradeAPI struct {
	deps ServerDeps
}

func registerGradeAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := gradeAPI{deps: deps}

	ag := g.Group("", jwt)
	tg := ag.Group("", teacherMiddleware())

	// activities
	ag.GET("/activities", api.queryActivities)
	ag.GET("/activities/student/:id", api.activitiesByStudent)
	tg.GET("/activities/journal", api.activityJournal)
	tg.GET("/activities/subject/:id", api.activitiesBySubject)
	tg.POST("/activities", api.createActivity)
	tg.PUT("/activities/:id", api.updateActivity)
	tg.DELETE("/activities/:id", api.destroyActivity)
	tg.DELETE("/labs/:id", api.destroyLab)

	// lessons
	ag.GET("/lessons", api.queryLessons)
	ag.GET("/lessons/student/:id", api.lessonsByStudent)
	tg.GET("/lessons/journal", api.lessonJournal)
	tg.POST("/lessons", api.createLesson)
	tg.POST("/lessons/bulk", api.createBulkLessons)
	tg.PUT("/lessons/:lessonId", api.updateLesson)
	tg.DELETE("/lessons/:lessonId", api.destroyLesson)
	tg.DELETE("/lessons/:subjectId/:subjectTypeId/:date", api.clearJournalColumn)

	// statistics
	ag.GET("/stats/attendance/:studentId", api.attendanceStats)
	ag.GET("/stats/student/:studentId", api.studentStats)
}

// --- activities ---

func (api *gradeAPI) queryActivities(ctx echo.Context) error {
	limit, offset, err := pagination(ctx)
	if err != nil {
		return err
	}
	as, err := api.deps.GradeSvc.QueryAllActivities(ctx.Request().Context(), limit, offset)
	if err != nil {
		return errors.Wrap(err, "querying activities")
	}
	return jsonData(ctx, http.StatusOK, as)
}

// activityJournal lists the calling teacher's graded activities, optionally
// narrowed to one subject and one group.
func (api *gradeAPI) activityJournal(ctx echo.Context) error {
	p, err := principalFromContext(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context principal")
	}
	subjectID, err := intQuery(ctx, "subjectId")
	if err != nil {
		return err
	}
	groupID, err := intQuery(ctx, "groupId")
	if err != nil {
		return err
	}

	as, err := api.deps.GradeSvc.ActivityJournal(ctx.Request().Context(), p.ID, subjectID, groupID)
	if err != nil {
		return errors.Wrap(err, "querying activity journal")
	}
	return jsonData(ctx, http.StatusOK, as)
}

func (api *gradeAPI) activitiesByStudent(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	as, err := api.deps.GradeSvc.FilterActivitiesByStudent(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "filtering activities by student")
	}
	return jsonData(ctx, http.StatusOK, as)
}

func (api *gradeAPI) activitiesBySubject(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	as, err := api.deps.GradeSvc.FilterActivitiesBySubject(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "filtering activities by subject")
	}
	return jsonData(ctx, http.StatusOK, as)
}

func (api *gradeAPI) createActivity(ctx echo.Context) error {
	var data grade.NewActivity
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewActivity")
	}
	reqCtx := ctx.Request().Context()
	if err := data.Validate(reqCtx, api.deps.Validate); err != nil {
		return err
	}

	a, err := api.deps.GradeSvc.CreateActivity(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating activity")
	}
	return jsonData(ctx, http.StatusCreated, a)
}

func (api *gradeAPI) updateActivity(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()
	a, err := api.deps.GradeSvc.GetActivityByID(reqCtx, id)
	if err != nil {
		return errors.Wrap(err, "finding activity by ID")
	}

	var data grade.UpdateActivity
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateActivity")
	}
	if err = data.Validate(reqCtx, api.deps.Validate); err != nil {
		return err
	}

	a, err = api.deps.GradeSvc.UpdateActivity(reqCtx, a, data)
	if err != nil {
		return errors.Wrap(err, "updating activity")
	}
	return jsonData(ctx, http.StatusOK, a)
}

func (api *gradeAPI) destroyActivity(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.deps.GradeSvc.DeleteActivity(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting activity")
	}
	return jsonMessage(ctx, http.StatusOK, "activity deleted")
}

// destroyLab removes every activity graded against one task.
func (api *gradeAPI) destroyLab(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	n, err := api.deps.GradeSvc.DeleteLab(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "deleting lab activities")
	}
	return jsonData(ctx, http.StatusOK, echo.Map{"deleted": n})
}

// --- lessons ---

func (api *gradeAPI) queryLessons(ctx echo.Context) error {
	limit, offset, err := pagination(ctx)
	if err != nil {
		return err
	}
	ls, err := api.deps.GradeSvc.QueryAllLessons(ctx.Request().Context(), limit, offset)
	if err != nil {
		return errors.Wrap(err, "querying lessons")
	}
	return jsonData(ctx, http.StatusOK, ls)
}

// lessonJournal lists a subject's lessons, optionally narrowed to one group
// and one form of teaching.
func (api *gradeAPI) lessonJournal(ctx echo.Context) error {
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
	subjectTypeID, err := intQuery(ctx, "subjectTypeId")
	if err != nil {
		return err
	}

	ls, err := api.deps.GradeSvc.LessonJournal(ctx.Request().Context(), *subjectID, groupID, subjectTypeID)
	if err != nil {
		return errors.Wrap(err, "querying lesson journal")
	}
	return jsonData(ctx, http.StatusOK, ls)
}

func (api *gradeAPI) lessonsByStudent(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	ls, err := api.deps.GradeSvc.FilterLessonsByStudent(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "filtering lessons by student")
	}
	return jsonData(ctx, http.StatusOK, ls)
}

func (api *gradeAPI) createLesson(ctx echo.Context) error {
	var data grade.NewLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLesson")
	}
	reqCtx := ctx.Request().Context()
	if err := data.Validate(reqCtx, api.deps.Validate); err != nil {
		return err
	}

	l, err := api.deps.GradeSvc.CreateLesson(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating lesson")
	}
	return jsonData(ctx, http.StatusCreated, l)
}

// createBulkLessons records one journal column for a whole group in a single
// transaction.
func (api *gradeAPI) createBulkLessons(ctx echo.Context) error {
	var data grade.BulkLessons
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BulkLessons")
	}
	reqCtx := ctx.Request().Context()
	if err := data.Validate(reqCtx, api.deps.Validate); err != nil {
		return err
	}

	ls, err := api.deps.GradeSvc.CreateBulkForGroup(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating lessons for group")
	}
	return jsonData(ctx, http.StatusCreated, ls)
}

func (api *gradeAPI) updateLesson(ctx echo.Context) error {
	id, err := intParam(ctx, "lessonId")
	if err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()
	l, err := api.deps.GradeSvc.GetLessonByID(reqCtx, id)
	if err != nil {
		return errors.Wrap(err, "finding lesson by ID")
	}

	var data grade.UpdateLesson
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLesson")
	}
	if err = data.Validate(reqCtx, api.deps.Validate); err != nil {
		return err
	}

	l, err = api.deps.GradeSvc.UpdateLesson(reqCtx, l, data)
	if err != nil {
		return errors.Wrap(err, "updating lesson")
	}
	return jsonData(ctx, http.StatusOK, l)
}

func (api *gradeAPI) destroyLesson(ctx echo.Context) error {
	id, err := intParam(ctx, "lessonId")
	if err != nil {
		return err
	}
	if err = api.deps.GradeSvc.DeleteLesson(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting lesson")
	}
	return jsonMessage(ctx, http.StatusOK, "lesson deleted")
}

// clearJournalColumn deletes every lesson sharing a (subject, form, date)
// tuple and reports the count.
func (api *gradeAPI) clearJournalColumn(ctx echo.Context) error {
	subjectID, err := intParam(ctx, "subjectId")
	if err != nil {
		return err
	}
	subjectTypeID, err := intParam(ctx, "subjectTypeId")
	if err != nil {
		return err
	}
	date, err := time.Parse(grade.DateFormat, ctx.Param("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
	}

	n, err := api.deps.GradeSvc.ClearJournalColumn(ctx.Request().Context(), subjectID, subjectTypeID, date)
	if err != nil {
		return errors.Wrap(err, "deleting journal column")
	}
	return jsonData(ctx, http.StatusOK, echo.Map{"deleted": n})
}

// --- statistics ---

func (api *gradeAPI) attendanceStats(ctx echo.Context) error {
	studentID, err := intParam(ctx, "studentId")
	if err != nil {
		return err
	}
	subjectID, err := intQuery(ctx, "subjectId")
	if err != nil {
		return err
	}

	stats, err := api.deps.GradeSvc.AttendanceStats(ctx.Request().Context(), studentID, subjectID)
	if err != nil {
		return errors.Wrap(err, "aggregating attendance stats")
	}
	return jsonData(ctx, http.StatusOK, stats)
}

func (api *gradeAPI) studentStats(ctx echo.Context) error {
	studentID, err := intParam(ctx, "studentId")
	if err != nil {
		return err
	}
	subjectID, err := intQuery(ctx, "subjectId")
	if err != nil {
		return err
	}

	stats, err := api.deps.GradeSvc.StudentStats(ctx.Request().Context(), studentID, subjectID)
	if err != nil {
		return errors.Wrap(err, "aggregating student stats")
	}
	return jsonData(ctx, http.StatusOK, stats)
}
