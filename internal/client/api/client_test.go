package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwalimu/shulesync/internal/models"
	"github.com/mwalimu/shulesync/pkg/api"
)

func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req api.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "teacher1", req.Username)

		_ = json.NewEncoder(w).Encode(api.TokenResponse{
			AccessToken:  "access",
			RefreshToken: "refresh",
			UserID:       "u1",
			ExpiresIn:    3600,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Login(context.Background(), api.LoginRequest{Username: "teacher1", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "u1", resp.UserID)
}

func TestClient_PushSendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/sync/push", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		var req api.PushRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Operations, 1)
		assert.Equal(t, "grades", req.Operations[0].Collection)

		_ = json.NewEncoder(w).Encode(api.PushResponse{
			Results:   []api.PushResult{{RecordID: req.Operations[0].RecordID, ServerID: "grade-1", Success: true}},
			Processed: 1,
			Succeeded: 1,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Push(context.Background(), "tok-123", api.PushRequest{
		Operations: []api.PushOperation{{
			Collection: "grades",
			Operation:  "CREATE",
			RecordID:   "temp_x",
			Data:       json.RawMessage(`{"id":"temp_x"}`),
			Timestamp:  time.Now().UTC(),
		}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "grade-1", resp.Results[0].ServerID)
}

func TestClient_Pull(t *testing.T) {
	lastSync := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/sync/pull", r.URL.Path)

		var req api.PullRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.LastSync)
		assert.True(t, req.LastSync.Equal(lastSync))
		assert.Equal(t, []string{"students"}, req.Collections)

		_ = json.NewEncoder(w).Encode(api.PullResponse{
			SyncedAt: time.Now().UTC(),
			Data: map[string][]json.RawMessage{
				"students": {json.RawMessage(`{"id":"s1","first_name":"A","last_name":"B"}`)},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Pull(context.Background(), "tok", api.PullRequest{
		LastSync:    &lastSync,
		Collections: []string{"students"},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Data["students"], 1)
}

func TestClient_TransportError(t *testing.T) {
	// Nothing is listening here.
	client := NewClient("http://127.0.0.1:1")

	_, err := client.Push(context.Background(), "tok", api.PushRequest{})
	require.Error(t, err)

	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "unauthorized", Message: "token expired"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.SyncStatus(context.Background(), "stale")
	require.Error(t, err)

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusUnauthorized, serverErr.Status)
	assert.Contains(t, serverErr.Message, "token expired")
}

func TestClient_ServerErrorPlainBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ListStudents(context.Background(), "tok", "")
	require.Error(t, err)

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusInternalServerError, serverErr.Status)
}

func TestClient_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthz", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	assert.True(t, client.Ping(context.Background()))

	down := NewClient("http://127.0.0.1:1")
	assert.False(t, down.Ping(context.Background()))
}

func TestClient_PingAnyStatusCounts(t *testing.T) {
	// A 500 still proves the network path is up.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	assert.True(t, client.Ping(context.Background()))
}

func TestClient_ListGradesFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/grades", r.URL.Path)
		assert.Equal(t, "s1", r.URL.Query().Get("student_id"))
		assert.Equal(t, "2025", r.URL.Query().Get("academic_year"))
		assert.Empty(t, r.URL.Query().Get("course_id"), "zero filter fields are not sent")

		_ = json.NewEncoder(w).Encode([]*models.Grade{
			{ID: "g1", StudentID: "s1", CourseID: "math", AcademicYear: 2025, Value: 80},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	grades, err := client.ListGrades(context.Background(), "tok", GradeFilter{StudentID: "s1", AcademicYear: 2025})
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, "g1", grades[0].ID)
}

func TestClient_UpdateGradeEscapesID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/grades/g%2F1", r.URL.EscapedPath())
		_ = json.NewEncoder(w).Encode(&models.Grade{ID: "g/1"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.UpdateGrade(context.Background(), "tok", &models.Grade{ID: "g/1", StudentID: "s1", CourseID: "math", AcademicYear: 2025})
	require.NoError(t, err)
}

func TestClient_DeleteGrade(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/grades/g1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	assert.NoError(t, client.DeleteGrade(context.Background(), "tok", "g1"))
}

func TestClient_CreateAttendance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/attendance", r.URL.Path)

		var att models.Attendance
		require.NoError(t, json.NewDecoder(r.Body).Decode(&att))
		att.ID = "att-1"
		_ = json.NewEncoder(w).Encode(&att)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	created, err := client.CreateAttendance(context.Background(), "tok", &models.Attendance{
		ClassID: "c1",
		Date:    "2025-03-10",
		Entries: []models.AttendanceEntry{{StudentID: "s1", Status: models.AttendancePresent}},
	})
	require.NoError(t, err)
	assert.Equal(t, "att-1", created.ID)
	assert.Equal(t, "c1", created.ClassID)
}
