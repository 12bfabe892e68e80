package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/collegedesk/console/core/payment"
)

var paymentFields = []string{
	payment.FieldAccountDetails,
	payment.FieldAmountReceivedFromStudent,
	payment.FieldAmountPaidToCollege,
	payment.FieldDateOfPayment,
	payment.FieldRemarks,
}

type paymentApi struct {
	srv *Server
}

func registerPaymentAPI(g *echo.Group, srv *Server) {
	api := paymentApi{srv: srv}

	pg := g.Group("/students/:id/payments")
	pg.GET("", api.query)
	pg.POST("", api.create)
	pg.DELETE("", api.destroyMultiple)
	pg.PUT("/:paymentID", api.update)
}

type DestroyMultipleRequest struct {
	IDs []int64 `query:"id"`
}

// board returns the loaded payment board of the student in the path.
func (api *paymentApi) board(ctx echo.Context) (*payment.Board, error) {
	viewer, err := getContextViewer(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting context viewer")
	}
	b := payment.NewBoard(ctx.Param("id"), api.srv.Payments, api.srv.Notifier, api.srv.Validate, api.srv.Translator, viewer)
	if err = b.Load(ctx.Request().Context()); err != nil {
		return nil, err
	}
	return b, nil
}

func rowByID(b *payment.Board, id int64) (payment.Row, bool) {
	for _, r := range b.Rows() {
		if !r.New && r.Installment.ID == id {
			return r, true
		}
	}
	return payment.Row{}, false
}

// fill copies the posted fields and screenshot into a row.
func fill(ctx echo.Context, b *payment.Board, row payment.Row) error {
	form, err := multipartForm(ctx)
	if err != nil {
		return err
	}
	for _, field := range paymentFields {
		if val, ok := firstValue(form, field); ok {
			if err = b.SetRowField(row.Key, field, val); err != nil {
				return err
			}
		}
	}
	if fhs := form.File[payment.FieldPaymentScreenshot]; len(fhs) > 0 {
		f, err := readFile(fhs[0])
		if err != nil {
			return err
		}
		if err = b.AttachScreenshot(row.Key, f); err != nil {
			return err
		}
	}
	return nil
}

// Handlers

func (api *paymentApi) query(ctx echo.Context) error {
	b, err := api.board(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, b.Rows())
}

func (api *paymentApi) create(ctx echo.Context) error {
	b, err := api.board(ctx)
	if err != nil {
		return err
	}
	row := b.AddNew(time.Now())
	if err = fill(ctx, b, row); err != nil {
		return err
	}

	msg, err := b.SubmitRow(ctx.Request().Context(), row.Key)
	if err != nil {
		return err
	}
	row, _ = b.Row(row.Key)
	return ctx.JSON(http.StatusCreated, MessageResponse{Message: msg, Data: row})
}

func (api *paymentApi) update(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("paymentID"), 10, 64)
	if err != nil {
		return errHttpNotFound
	}
	b, err := api.board(ctx)
	if err != nil {
		return err
	}
	row, ok := rowByID(b, id)
	if !ok {
		return errHttpNotFound
	}
	if err = fill(ctx, b, row); err != nil {
		return err
	}

	msg, err := b.SubmitRow(ctx.Request().Context(), row.Key)
	if err != nil {
		return err
	}
	row, _ = b.Row(row.Key)
	return ctx.JSON(http.StatusOK, MessageResponse{Message: msg, Data: row})
}

func (api *paymentApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	b, err := api.board(ctx)
	if err != nil {
		return err
	}
	for _, id := range query.IDs {
		row, ok := rowByID(b, id)
		if !ok {
			return errHttpNotFound
		}
		if err = b.Select(row.Key, true); err != nil {
			return err
		}
	}

	msg, err := b.BulkDelete(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: msg, Data: b.Rows()})
}
