package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/collegedesk/console/core/college"
	"github.com/collegedesk/console/core/student"
)

type collegeApi struct {
	srv *Server
}

func registerCollegeAPI(g *echo.Group, srv *Server) {
	api := collegeApi{srv: srv}

	cg := g.Group("/colleges")
	cg.GET("/options", api.options)
	cg.POST("", api.create)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update)
}

type CollegeResponse struct {
	ID    string                `json:"id"`
	Value college.CourseCollege `json:"value"`
	Dirty bool                  `json:"dirty"`
}

func (api *collegeApi) editor(ctx echo.Context) (*college.Editor, error) {
	viewer, err := getContextViewer(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting context viewer")
	}
	return college.NewEditor(api.srv.Colleges, api.srv.Notifier, api.srv.Validate, viewer), nil
}

// Handlers

func (api *collegeApi) options(ctx echo.Context) error {
	opts := student.NewOptions(api.srv.Options, api.srv.Logger)
	return ctx.JSON(http.StatusOK, opts.Colleges(ctx.Request().Context(), ctx.QueryParam("search")))
}

func (api *collegeApi) retrieve(ctx echo.Context) error {
	ed, err := api.editor(ctx)
	if err != nil {
		return err
	}
	if err = ed.Load(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "loading college")
	}
	return ctx.JSON(http.StatusOK, CollegeResponse{ID: ed.ID(), Value: ed.Values(), Dirty: ed.Dirty()})
}

func (api *collegeApi) create(ctx echo.Context) error {
	return api.submit(ctx, "", http.StatusCreated)
}

func (api *collegeApi) update(ctx echo.Context) error {
	return api.submit(ctx, ctx.Param("id"), http.StatusOK)
}

func (api *collegeApi) submit(ctx echo.Context, id string, status int) error {
	ed, err := api.editor(ctx)
	if err != nil {
		return err
	}
	defer ed.Close()

	reqCtx := ctx.Request().Context()
	if err = ed.Load(reqCtx, id); err != nil {
		return errors.Wrap(err, "loading college")
	}

	form, err := multipartForm(ctx)
	if err != nil {
		return err
	}
	for _, field := range []string{
		college.FieldCollegeName, college.FieldCourseName, college.FieldCollegeLocation, college.FieldCourseDescription,
	} {
		if val, ok := firstValue(form, field); ok {
			if err = ed.SetField(field, val); err != nil {
				return err
			}
		}
	}
	if fhs := form.File[college.FieldBrochure]; len(fhs) > 0 {
		f, err := readFile(fhs[0])
		if err != nil {
			return err
		}
		if err = ed.AttachBrochure(f); err != nil {
			return err
		}
	}

	msg, err := ed.Submit(reqCtx)
	if err != nil {
		return err
	}
	return ctx.JSON(status, MessageResponse{Message: msg})
}
