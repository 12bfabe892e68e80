package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/collegedesk/console/core"
	"github.com/collegedesk/console/core/college"
	"github.com/collegedesk/console/core/payment"
	"github.com/collegedesk/console/core/student"
)

// Error is a non-2xx answer of the backend.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend: %d %s", e.StatusCode, e.Message)
}

// Client talks to the admissions REST backend.
type Client struct {
	baseURL string
	token   string
	rc      *rest.Client
}

var (
	_ college.Backend        = (*Client)(nil)
	_ student.Backend        = (*Client)(nil)
	_ student.OptionsBackend = (*Client)(nil)
	_ payment.Backend        = (*Client)(nil)
)

func NewClient(conf core.BackendConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		token:   conf.Token,
		rc:      &rest.Client{HTTPClient: &http.Client{Timeout: conf.Timeout}},
	}
}

type messageResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Error   string `json:"error"`
}

func (m messageResponse) text() string {
	switch {
	case m.Message != "":
		return m.Message
	case m.Detail != "":
		return m.Detail
	}
	return m.Error
}

func (c *Client) request(method rest.Method, path string) rest.Request {
	req := rest.Request{
		Method:      method,
		BaseURL:     c.baseURL + path,
		Headers:     map[string]string{"Accept": "application/json"},
		QueryParams: map[string]string{},
	}
	if c.token != "" {
		req.Headers["Authorization"] = "Bearer " + c.token
	}
	return req
}

func (c *Client) withPayload(req rest.Request, payload *core.Payload) (rest.Request, error) {
	body, contentType, err := payload.Encode()
	if err != nil {
		return req, errors.Wrap(err, "encoding payload")
	}
	req.Headers["Content-Type"] = contentType
	req.Body = body
	return req, nil
}

// send runs req and decodes a 2xx JSON body into out, when out is not nil.
func (c *Client) send(ctx context.Context, req rest.Request, out interface{}) error {
	res, err := c.rc.SendWithContext(ctx, req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", req.Method, req.BaseURL)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var m messageResponse
		_ = json.Unmarshal([]byte(res.Body), &m)
		msg := m.text()
		if msg == "" {
			msg = strings.TrimSpace(res.Body)
		}
		if msg == "" {
			msg = http.StatusText(res.StatusCode)
		}
		return &Error{StatusCode: res.StatusCode, Message: msg}
	}
	if out == nil || strings.TrimSpace(res.Body) == "" {
		return nil
	}
	dec := json.NewDecoder(strings.NewReader(res.Body))
	dec.UseNumber()
	if err = dec.Decode(out); err != nil {
		return errors.Wrapf(err, "decoding %s %s", req.Method, req.BaseURL)
	}
	return nil
}

func (c *Client) sendMessage(ctx context.Context, req rest.Request) (string, error) {
	var m messageResponse
	if err := c.send(ctx, req, &m); err != nil {
		return "", err
	}
	return m.text(), nil
}

func escape(id string) string {
	return strings.ReplaceAll(strings.TrimSpace(id), "/", "%2F")
}

// courses

func (c *Client) GetCourseDetails(ctx context.Context, id string) (college.CourseCollege, error) {
	var cc college.CourseCollege
	err := c.send(ctx, c.request(rest.Get, "/course/"+escape(id)+"/"), &cc)
	return cc, err
}

func (c *Client) RegisterCollege(ctx context.Context, payload *core.Payload) (string, error) {
	req, err := c.withPayload(c.request(rest.Post, "/course/"), payload)
	if err != nil {
		return "", err
	}
	return c.sendMessage(ctx, req)
}

func (c *Client) UpdateCollege(ctx context.Context, payload *core.Payload, id string) (string, error) {
	req, err := c.withPayload(c.request(rest.Put, "/course/"+escape(id)+"/"), payload)
	if err != nil {
		return "", err
	}
	return c.sendMessage(ctx, req)
}

func (c *Client) ListCollegeNames(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := c.send(ctx, c.request(rest.Get, "/college/names/"), &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *Client) ListEmployeeNames(ctx context.Context, q student.EmployeeQuery) (student.EmployeePage, error) {
	req := c.request(rest.Get, "/employee/names/")
	req.QueryParams["limit"] = strconv.Itoa(q.Limit)
	req.QueryParams["page"] = strconv.Itoa(q.Page)
	req.QueryParams["search"] = q.Search

	var page student.EmployeePage
	err := c.send(ctx, req, &page)
	return page, err
}

// students

func (c *Client) ViewStudentDetails(ctx context.Context, id string) (student.Record, error) {
	r := student.Record{}
	if err := c.send(ctx, c.request(rest.Get, "/student/"+escape(id)+"/"), &r); err != nil {
		return nil, err
	}
	return r, nil
}

func (c *Client) UpdateStudent(ctx context.Context, id string, payload *core.Payload) (string, error) {
	req, err := c.withPayload(c.request(rest.Patch, "/student/"+escape(id)+"/"), payload)
	if err != nil {
		return "", err
	}
	return c.sendMessage(ctx, req)
}

// payments

func paymentsPath(studentID string) string {
	return "/student/" + escape(studentID) + "/payments/"
}

func (c *Client) ListPayments(ctx context.Context, studentID string) ([]payment.Installment, error) {
	var res struct {
		Results []payment.Installment `json:"results"`
	}
	if err := c.send(ctx, c.request(rest.Get, paymentsPath(studentID)), &res); err != nil {
		return nil, err
	}
	if res.Results == nil {
		res.Results = []payment.Installment{}
	}
	return res.Results, nil
}

func (c *Client) CreatePayments(ctx context.Context, studentID string, payload *core.Payload) (payment.Installment, string, error) {
	req, err := c.withPayload(c.request(rest.Post, paymentsPath(studentID)), payload)
	if err != nil {
		return payment.Installment{}, "", err
	}
	var res struct {
		messageResponse
		Data payment.Installment `json:"data"`
	}
	if err = c.send(ctx, req, &res); err != nil {
		return payment.Installment{}, "", err
	}
	return res.Data, res.text(), nil
}

func (c *Client) EditPayments(ctx context.Context, studentID string, payload *core.Payload) (string, error) {
	req, err := c.withPayload(c.request(rest.Patch, paymentsPath(studentID)), payload)
	if err != nil {
		return "", err
	}
	return c.sendMessage(ctx, req)
}

func (c *Client) DeletePayments(ctx context.Context, studentID string, ids []int64) (string, error) {
	body, err := json.Marshal(map[string][]int64{"ids": ids})
	if err != nil {
		return "", errors.Wrap(err, "encoding ids")
	}
	req := c.request(rest.Delete, paymentsPath(studentID))
	req.Headers["Content-Type"] = "application/json"
	req.Body = body
	return c.sendMessage(ctx, req)
}
