package backend_test

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collegedesk/console/core"
	"github.com/collegedesk/console/core/student"
	"github.com/collegedesk/console/services/backend"
)

type recorded struct {
	method, path, query, contentType, auth string
	form                                   map[string][]string
	files                                  map[string]string
	body                                   []byte
}

func newServer(t *testing.T, status int, response string) (*backend.Client, *recorded) {
	t.Helper()
	rec := new(recorded)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.contentType = r.Header.Get("Content-Type")
		rec.auth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(10 * core.MB); err == nil {
			rec.form = r.MultipartForm.Value
			rec.files = map[string]string{}
			for k, fhs := range r.MultipartForm.File {
				rec.files[k] = fhs[0].Filename
			}
		} else {
			rec.body, _ = ioutil.ReadAll(r.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	c := backend.NewClient(core.BackendConfig{BaseURL: srv.URL + "/api/", Token: "s3cret", Timeout: 5 * time.Second})
	return c, rec
}

func TestClient_GetCourseDetails(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"college_name":"St Mary College","course_name":"Bsc Nursing","college_location":"Kochi","brochure":"media/b.pdf"}`)

	cc, err := c.GetCourseDetails(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/api/course/7/", rec.path)
	assert.Equal(t, "Bearer s3cret", rec.auth)
	assert.Equal(t, "St Mary College", cc.CollegeName)
	assert.Equal(t, "Kochi", cc.CollegeLocation)
}

func TestClient_mutations(t *testing.T) {
	tests := []struct {
		name       string
		call       func(c *backend.Client, p *core.Payload) (string, error)
		wantMethod string
		wantPath   string
	}{
		{
			name: "register college",
			call: func(c *backend.Client, p *core.Payload) (string, error) {
				return c.RegisterCollege(context.Background(), p)
			},
			wantMethod: http.MethodPost, wantPath: "/api/course/",
		},
		{
			name: "update college",
			call: func(c *backend.Client, p *core.Payload) (string, error) {
				return c.UpdateCollege(context.Background(), p, "7")
			},
			wantMethod: http.MethodPut, wantPath: "/api/course/7/",
		},
		{
			name: "update student",
			call: func(c *backend.Client, p *core.Payload) (string, error) {
				return c.UpdateStudent(context.Background(), "42", p)
			},
			wantMethod: http.MethodPatch, wantPath: "/api/student/42/",
		},
		{
			name: "edit payments",
			call: func(c *backend.Client, p *core.Payload) (string, error) {
				return c.EditPayments(context.Background(), "42", p)
			},
			wantMethod: http.MethodPatch, wantPath: "/api/student/42/payments/",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newServer(t, http.StatusOK, `{"message":"Saved"}`)
			p := core.NewPayload()
			p.Set("college_name", "St Mary College")
			p.SetFile("brochure", core.NewFile("b.pdf", "application/pdf", []byte("%PDF")))

			msg, err := tt.call(c, p)
			require.NoError(t, err)
			assert.Equal(t, "Saved", msg)
			assert.Equal(t, tt.wantMethod, rec.method)
			assert.Equal(t, tt.wantPath, rec.path)
			assert.Contains(t, rec.contentType, "multipart/form-data")
			assert.Equal(t, []string{"St Mary College"}, rec.form["college_name"])
			assert.Equal(t, "b.pdf", rec.files["brochure"])
		})
	}
}

func TestClient_ListEmployeeNames(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"count":4,"results":[{"id":5,"name":"Anu"},{"id":"u-6","name":"Binu"}]}`)

	page, err := c.ListEmployeeNames(context.Background(), student.EmployeeQuery{Limit: 3, Page: 2, Search: "nu"})
	require.NoError(t, err)
	assert.Equal(t, "/api/employee/names/", rec.path)
	assert.Contains(t, rec.query, "limit=3")
	assert.Contains(t, rec.query, "page=2")
	assert.Contains(t, rec.query, "search=nu")
	assert.Equal(t, 4, page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, core.FlexString("5"), page.Results[0].ID)
	assert.Equal(t, core.FlexString("u-6"), page.Results[1].ID)
}

func TestClient_ViewStudentDetails(t *testing.T) {
	c, _ := newServer(t, http.StatusOK, `{"id": 42, "name": "Anu", "total_fees": 120000.50}`)

	r, err := c.ViewStudentDetails(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "42", r.ID())
	assert.Equal(t, json.Number("120000.50"), r["total_fees"])
}

func TestClient_payments(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"results":[{"id":1,"amount_received_from_student":"1000","date_of_payment":"2024-05-01"}]}`)
	list, err := c.ListPayments(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "/api/student/42/payments/", rec.path)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)

	c, _ = newServer(t, http.StatusCreated, `{"message":"Payment added","data":{"id":9,"amount_received_from_student":500}}`)
	in, msg, err := c.CreatePayments(context.Background(), "42", core.NewPayload())
	require.NoError(t, err)
	assert.Equal(t, "Payment added", msg)
	assert.Equal(t, int64(9), in.ID)
	assert.Equal(t, core.FlexString("500"), in.AmountReceivedFromStudent)

	c, rec = newServer(t, http.StatusOK, `{"message":"Deleted"}`)
	msg, err = c.DeletePayments(context.Background(), "42", []int64{1, 3})
	require.NoError(t, err)
	assert.Equal(t, "Deleted", msg)
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "application/json", rec.contentType)
	assert.JSONEq(t, `{"ids":[1,3]}`, string(rec.body))
}

func TestClient_errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode int
		wantMsg  string
	}{
		{name: "message", status: http.StatusBadRequest, body: `{"message":"Invalid date"}`, wantCode: 400, wantMsg: "Invalid date"},
		{name: "detail", status: http.StatusForbidden, body: `{"detail":"Not allowed"}`, wantCode: 403, wantMsg: "Not allowed"},
		{name: "plain body", status: http.StatusInternalServerError, body: "oops\n", wantCode: 500, wantMsg: "oops"},
		{name: "empty body", status: http.StatusNotFound, body: "", wantCode: 404, wantMsg: "Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newServer(t, tt.status, tt.body)
			_, err := c.GetCourseDetails(context.Background(), "7")
			var be *backend.Error
			require.True(t, errors.As(err, &be), "got %v", err)
			assert.Equal(t, tt.wantCode, be.StatusCode)
			assert.Equal(t, tt.wantMsg, be.Message)
		})
	}
}

func TestClient_unreachable(t *testing.T) {
	c := backend.NewClient(core.BackendConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	_, err := c.ListCollegeNames(context.Background())
	require.Error(t, err)
	var be *backend.Error
	assert.False(t, errors.As(err, &be))
}
