package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/collegedesk/console/core/audit"
)

func registerAuditAPI(g *echo.Group, srv *Server) {
	g.GET("/audit", func(ctx echo.Context) error {
		if srv.Journal == nil {
			return errHttpNotFound
		}
		filter := audit.QueryFilter{
			Action:   ctx.QueryParam("action"),
			RecordID: ctx.QueryParam("record_id"),
			Limit:    queryInt(ctx, "limit"),
		}
		entries, err := srv.Journal.List(ctx.Request().Context(), filter)
		if err != nil {
			return errors.Wrap(err, "listing audit entries")
		}
		return ctx.JSON(http.StatusOK, entries)
	}, adminMiddleware)
}
