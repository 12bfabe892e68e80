package echoapi

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/collegedesk/console/core/student"
)

type studentApi struct {
	srv *Server
}

func registerStudentAPI(g *echo.Group, srv *Server) {
	api := studentApi{srv: srv}

	g.GET("/employees/options", api.employeeOptions, adminMiddleware)

	sg := g.Group("/students/:id")
	sg.GET("/form", api.form)
	sg.PUT("", api.update)
}

// load returns an editor seeded with the student of the path.
func (api *studentApi) load(ctx echo.Context) (*student.Editor, error) {
	viewer, err := getContextViewer(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting context viewer")
	}
	ed := student.NewEditor(
		api.srv.Students, api.srv.Notifier, api.srv.Validate, api.srv.Translator,
		api.srv.Logger, viewer, api.srv.Conf.Documents.BaseURL,
	)
	if err = ed.Load(ctx.Request().Context(), ctx.Param("id"), queryBool(ctx, "admitted")); err != nil {
		return nil, errors.Wrap(err, "loading student")
	}
	return ed, nil
}

// Handlers

func (api *studentApi) employeeOptions(ctx echo.Context) error {
	opts := student.NewOptions(api.srv.Options, api.srv.Logger)
	page := opts.Employees(ctx.Request().Context(), ctx.QueryParam("search"), queryInt(ctx, "page"))
	return ctx.JSON(http.StatusOK, page)
}

func (api *studentApi) form(ctx echo.Context) error {
	ed, err := api.load(ctx)
	if err != nil {
		return err
	}
	defer ed.Close()
	return ctx.JSON(http.StatusOK, ed.Form())
}

func (api *studentApi) update(ctx echo.Context) error {
	ed, err := api.load(ctx)
	if err != nil {
		return err
	}
	defer ed.Close()

	viewer, err := getContextViewer(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context viewer")
	}
	form, err := multipartForm(ctx)
	if err != nil {
		return err
	}

	fields := make([]string, 0, len(form.Value))
	for field := range form.Value {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		val, _ := firstValue(form, field)
		switch field {
		case student.FieldStudentResponse:
			err = ed.SetResponses(form.Value[field])
		case student.FieldStaffAssigned:
			if label, ok := firstValue(form, student.FieldStaffAssignedFullName); ok && viewer.IsAdmin {
				err = ed.SelectStaff(student.Option{Label: label, Value: val})
			} else {
				err = ed.SetField(field, val)
			}
		case student.FieldStaffAssignedFullName:
			// set along with staff_assigned
		default:
			err = ed.SetField(field, val)
		}
		if err != nil {
			return err
		}
	}

	for field, fhs := range form.File {
		if len(fhs) == 0 {
			continue
		}
		f, err := readFile(fhs[0])
		if err != nil {
			return err
		}
		if err = ed.AttachDocument(field, f); err != nil {
			return err
		}
	}

	msg, err := ed.Submit(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: msg, Data: ed.Form()})
}
