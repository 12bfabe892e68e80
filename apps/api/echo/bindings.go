package echoapi

import (
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/collegedesk/console/core"
)

type (
	// MessageResponse is the body of every successful mutation.
	MessageResponse struct {
		Message string      `json:"message"`
		Data    interface{} `json:"data,omitempty"`
	}
)

// multipartForm returns the posted form, or an empty one for bodies that are not multipart.
func multipartForm(ctx echo.Context) (*multipart.Form, error) {
	form, err := ctx.MultipartForm()
	if err == http.ErrNotMultipart {
		return &multipart.Form{Value: map[string][]string{}, File: map[string][]*multipart.FileHeader{}}, nil
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "malformed multipart form").SetInternal(err)
	}
	return form, nil
}

// readFile loads an uploaded part in memory.
func readFile(fh *multipart.FileHeader) (*core.File, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "opening upload %q", fh.Filename)
	}
	defer src.Close()

	data, err := ioutil.ReadAll(src)
	if err != nil {
		return nil, errors.Wrapf(err, "reading upload %q", fh.Filename)
	}
	return core.NewFile(fh.Filename, fh.Header.Get(echo.HeaderContentType), data), nil
}

// firstValue returns the first value posted for key.
func firstValue(form *multipart.Form, key string) (string, bool) {
	if vals, ok := form.Value[key]; ok && len(vals) > 0 {
		return vals[0], true
	}
	return "", false
}

func queryBool(ctx echo.Context, name string) bool {
	b, _ := strconv.ParseBool(ctx.QueryParam(name))
	return b
}

func queryInt(ctx echo.Context, name string) int {
	i, _ := strconv.Atoi(ctx.QueryParam(name))
	return i
}
