package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-catalog/pkg/database"
	"video-catalog/pkg/handlers"
	"video-catalog/pkg/models"
	"video-catalog/pkg/service"
	"video-catalog/pkg/store"
)

type testServer struct {
	router http.Handler
	store  *store.GormVideoStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open("sqlite3", ":memory:", 1)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := log.NewStdLogger(io.Discard)
	videos := store.NewGormVideoStore(db, logger)
	clock := service.WithClock(func() time.Time { return time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC) })
	h := handlers.New(service.NewVideoService(videos, logger, clock), logger)

	return &testServer{
		router: handlers.NewRouter(h, handlers.RouterConfig{AllowOrigins: []string{"*"}}, logger),
		store:  videos,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) count(t *testing.T) int64 {
	t.Helper()
	n, err := s.store.Count(context.Background())
	require.NoError(t, err)
	return n
}

func decodeVideos(t *testing.T, rec *httptest.ResponseRecorder) []map[string]string {
	t.Helper()
	var out []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestPing(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Pong!"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCreateAndList(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/videos", `{"id":"v1","title":"cats","duration":"3:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{
		"message": "Video added!",
		"newVideo": {"id":"v1","title":"cats","duration":"3:00","uploaded_at":"2024-02-03T04:05:06.000Z"}
	}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/videos/?q=cat", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeVideos(t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "v1", got[0]["id"])

	rec = s.do(t, http.MethodGet, "/videos?q=dog", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/videos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeVideos(t, rec), 1)
}

func TestCreateDuplicate(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/videos", `{"id":"v1","title":"cats","duration":"3:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/videos", `{"id":"v1","title":"again","duration":"1:00"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "'id' already exists", rec.Body.String())
	assert.EqualValues(t, 1, s.count(t))
}

func TestCreateEmptyID(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/videos", `{"id":"","title":"","duration":""}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/videos", `{"id":"","title":"cats"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "'id' already exists", rec.Body.String())
	assert.EqualValues(t, 1, s.count(t))

	rec = s.do(t, http.MethodGet, "/videos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	videos := decodeVideos(t, rec)
	require.Len(t, videos, 1)
	assert.Equal(t, "", videos[0]["id"])
	assert.Equal(t, "", videos[0]["title"])
	assert.Equal(t, "2024-02-03T04:05:06.000Z", videos[0]["uploaded_at"])
}

func TestCreateValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"numeric id", `{"id":1,"title":"cats"}`, "'id' must be a string"},
		{"object title", `{"id":"v1","title":{"x":1}}`, "'title' must be a string"},
		{"null duration", `{"id":"v1","duration":null}`, "'duration' must be a string"},
		{"missing id", `{"title":"cats"}`, "'id' is required"},
		{"empty body", ``, "'id' is required"},
		{"malformed", `{"id":`, "request body must be a JSON object"},
		{"array body", `["v1"]`, "request body must be a JSON object"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t)
			rec := s.do(t, http.MethodPost, "/videos", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.want, rec.Body.String())
			assert.EqualValues(t, 0, s.count(t))
		})
	}
}

func TestGetVideo(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/videos", `{"id":"v1","title":"cats","duration":"3:00"}`).Code)

	rec := s.do(t, http.MethodGet, "/videos/v1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"v1","title":"cats","duration":"3:00","uploaded_at":"2024-02-03T04:05:06.000Z"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/videos/v2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "video not found", rec.Body.String())
}

func TestUpdateVideo(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/videos", `{"id":"v1","title":"cats","duration":"3:00"}`).Code)

	rec := s.do(t, http.MethodPut, "/videos/v1", `{"title":"new","duration":""}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"Video updated successfully!"}`, rec.Body.String())

	v1, err := s.store.GetByID(context.Background(), "v1")
	require.NoError(t, err)
	require.NotNil(t, v1)
	assert.Equal(t, models.VideoRecord{ID: "v1", Title: "new", Duration: "3:00", UploadedAt: "2024-02-03T04:05:06.000Z"}, *v1)
}

func TestUpdateVideoRenamesID(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/videos", `{"id":"v1","title":"cats","duration":"3:00"}`).Code)

	rec := s.do(t, http.MethodPut, "/videos/v1", `{"id":"v2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/videos/v1", "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/videos/v2", "").Code)
	assert.EqualValues(t, 1, s.count(t))
}

func TestUpdateVideoFailures(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/videos", `{"id":"v1","title":"cats","duration":"3:00"}`).Code)

	rec := s.do(t, http.MethodPut, "/videos/ghost", `{"title":"new"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"video not found"}`, rec.Body.String())

	rec = s.do(t, http.MethodPut, "/videos/v1", `{"title":42}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"'title' must be a string"}`, rec.Body.String())

	rec = s.do(t, http.MethodPut, "/videos/v1", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	v1, err := s.store.GetByID(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, "cats", v1.Title)
}

func TestDeleteVideo(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/videos", `{"id":"v1","title":"cats","duration":"3:00"}`).Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/videos", `{"id":"v2","title":"dogs","duration":"2:00"}`).Code)

	rec := s.do(t, http.MethodDelete, "/videos/v1", "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Video deleted successfully!", rec.Body.String())
	assert.EqualValues(t, 1, s.count(t))

	rec = s.do(t, http.MethodDelete, "/videos/v1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid id", rec.Body.String())
	assert.EqualValues(t, 1, s.count(t))
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/videos", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
