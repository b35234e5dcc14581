package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mwalimu/shulesync/internal/models"
	"github.com/mwalimu/shulesync/pkg/api"
)

//go:generate go tool moq -out sync_api_mock.go . SyncAPI

// SyncAPI is the sync protocol surface of the remote server.
type SyncAPI interface {
	// Push submits one batch of queued mutations.
	Push(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error)

	// Pull requests fresh reference data, optionally scoped by class/year and
	// a lastSync watermark.
	Pull(ctx context.Context, accessToken string, req api.PullRequest) (*api.PullResponse, error)

	// SyncStatus returns display-only aggregate counts from the server.
	SyncStatus(ctx context.Context, accessToken string) (*api.SyncStatusResponse, error)
}

//go:generate go tool moq -out entity_api_mock.go . EntityAPI

// EntityAPI is the direct CRUD surface used while online.
type EntityAPI interface {
	CreateGrade(ctx context.Context, accessToken string, grade *models.Grade) (*models.Grade, error)
	UpdateGrade(ctx context.Context, accessToken string, grade *models.Grade) (*models.Grade, error)
	DeleteGrade(ctx context.Context, accessToken, id string) error
	ListGrades(ctx context.Context, accessToken string, filter GradeFilter) ([]*models.Grade, error)

	CreateAttendance(ctx context.Context, accessToken string, att *models.Attendance) (*models.Attendance, error)
	UpdateAttendance(ctx context.Context, accessToken string, att *models.Attendance) (*models.Attendance, error)
	ListAttendance(ctx context.Context, accessToken string, filter AttendanceFilter) ([]*models.Attendance, error)

	ListStudents(ctx context.Context, accessToken, classID string) ([]*models.Student, error)
}

//go:generate go tool moq -out auth_api_mock.go . AuthAPI

// AuthAPI is the authentication surface of the remote server.
type AuthAPI interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error)
	Refresh(ctx context.Context, req api.RefreshRequest) (*api.TokenResponse, error)
}

// GradeFilter narrows a grade listing. Zero fields are not sent.
type GradeFilter struct {
	StudentID    string
	CourseID     string
	ClassID      string
	AcademicYear int
}

// AttendanceFilter narrows an attendance listing. Zero fields are not sent.
type AttendanceFilter struct {
	ClassID string
	Date    string
}

// Client is the HTTP client for the school server.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

var (
	_ SyncAPI   = (*Client)(nil)
	_ EntityAPI = (*Client)(nil)
	_ AuthAPI   = (*Client)(nil)
)

// NewClient creates a new API client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Keep the bearer token across redirects.
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Ping probes connectivity against the server health endpoint. Any response,
// even an error status, proves the network path is up.
func (c *Client) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return true
}

// Login authenticates a user by username and password.
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", "", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Refresh exchanges a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, req api.RefreshRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/refresh", "", req, &resp); err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	return &resp, nil
}

// Push submits one batch of queued mutations.
func (c *Client) Push(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
	var resp api.PushResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/sync/push", accessToken, req, &resp); err != nil {
		return nil, fmt.Errorf("push request failed: %w", err)
	}
	return &resp, nil
}

// Pull requests fresh reference data.
func (c *Client) Pull(ctx context.Context, accessToken string, req api.PullRequest) (*api.PullResponse, error) {
	var resp api.PullResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/sync/pull", accessToken, req, &resp); err != nil {
		return nil, fmt.Errorf("pull request failed: %w", err)
	}
	return &resp, nil
}

// SyncStatus returns per-collection aggregate counts from the server.
func (c *Client) SyncStatus(ctx context.Context, accessToken string) (*api.SyncStatusResponse, error) {
	var resp api.SyncStatusResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/sync/status", accessToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("sync status request failed: %w", err)
	}
	return &resp, nil
}

// CreateGrade creates a grade and returns the server's canonical record.
func (c *Client) CreateGrade(ctx context.Context, accessToken string, grade *models.Grade) (*models.Grade, error) {
	var resp models.Grade
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/grades", accessToken, grade, &resp); err != nil {
		return nil, fmt.Errorf("create grade request failed: %w", err)
	}
	return &resp, nil
}

// UpdateGrade updates a grade and returns the server's canonical record.
func (c *Client) UpdateGrade(ctx context.Context, accessToken string, grade *models.Grade) (*models.Grade, error) {
	var resp models.Grade
	path := "/api/v1/grades/" + url.PathEscape(grade.ID)
	if err := c.doRequest(ctx, http.MethodPut, path, accessToken, grade, &resp); err != nil {
		return nil, fmt.Errorf("update grade request failed: %w", err)
	}
	return &resp, nil
}

// DeleteGrade deletes a grade by id.
func (c *Client) DeleteGrade(ctx context.Context, accessToken, id string) error {
	path := "/api/v1/grades/" + url.PathEscape(id)
	if err := c.doRequest(ctx, http.MethodDelete, path, accessToken, nil, nil); err != nil {
		return fmt.Errorf("delete grade request failed: %w", err)
	}
	return nil
}

// ListGrades lists grades matching the filter.
func (c *Client) ListGrades(ctx context.Context, accessToken string, filter GradeFilter) ([]*models.Grade, error) {
	q := url.Values{}
	if filter.StudentID != "" {
		q.Set("student_id", filter.StudentID)
	}
	if filter.CourseID != "" {
		q.Set("course_id", filter.CourseID)
	}
	if filter.ClassID != "" {
		q.Set("class_id", filter.ClassID)
	}
	if filter.AcademicYear != 0 {
		q.Set("academic_year", strconv.Itoa(filter.AcademicYear))
	}

	var resp []*models.Grade
	if err := c.doRequest(ctx, http.MethodGet, withQuery("/api/v1/grades", q), accessToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("list grades request failed: %w", err)
	}
	return resp, nil
}

// CreateAttendance creates an attendance register and returns the server's
// canonical record.
func (c *Client) CreateAttendance(ctx context.Context, accessToken string, att *models.Attendance) (*models.Attendance, error) {
	var resp models.Attendance
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/attendance", accessToken, att, &resp); err != nil {
		return nil, fmt.Errorf("create attendance request failed: %w", err)
	}
	return &resp, nil
}

// UpdateAttendance updates an attendance register.
func (c *Client) UpdateAttendance(ctx context.Context, accessToken string, att *models.Attendance) (*models.Attendance, error) {
	var resp models.Attendance
	path := "/api/v1/attendance/" + url.PathEscape(att.ID)
	if err := c.doRequest(ctx, http.MethodPut, path, accessToken, att, &resp); err != nil {
		return nil, fmt.Errorf("update attendance request failed: %w", err)
	}
	return &resp, nil
}

// ListAttendance lists attendance registers matching the filter.
func (c *Client) ListAttendance(ctx context.Context, accessToken string, filter AttendanceFilter) ([]*models.Attendance, error) {
	q := url.Values{}
	if filter.ClassID != "" {
		q.Set("class_id", filter.ClassID)
	}
	if filter.Date != "" {
		q.Set("date", filter.Date)
	}

	var resp []*models.Attendance
	if err := c.doRequest(ctx, http.MethodGet, withQuery("/api/v1/attendance", q), accessToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("list attendance request failed: %w", err)
	}
	return resp, nil
}

// ListStudents lists students, optionally scoped to one class.
func (c *Client) ListStudents(ctx context.Context, accessToken, classID string) ([]*models.Student, error) {
	q := url.Values{}
	if classID != "" {
		q.Set("class_id", classID)
	}

	var resp []*models.Student
	if err := c.doRequest(ctx, http.MethodGet, withQuery("/api/v1/students", q), accessToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("list students request failed: %w", err)
	}
	return resp, nil
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// doRequest executes one HTTP exchange. Failures before a response arrives
// come back as *TransportError, non-2xx statuses as *ServerError; the sync
// engine relies on that split to decide between retrying the whole batch and
// per-item handling.
func (c *Client) doRequest(ctx context.Context, method, path, accessToken string, body, result any) error {
	reqURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			msg := errResp.Error
			if errResp.Message != "" {
				msg = errResp.Message
			}
			return &ServerError{Status: resp.StatusCode, Message: msg}
		}
		return &ServerError{Status: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
