package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unintend-backend/internal/auth"
	"unintend-backend/internal/domain"
	"unintend-backend/internal/repository"
	"unintend-backend/internal/service"
	"unintend-backend/internal/storage"
)

const testSecret = "test-secret"

type stubUsers struct {
	users map[int64]domain.User
}

func (s *stubUsers) Authenticate(_ context.Context, login, password string) (*domain.User, error) {
	for _, u := range s.users {
		if (u.Username == login || u.Email == login) && password == "pass1234" {
			return &u, nil
		}
	}
	if login == "broken" {
		return nil, fmt.Errorf("lookup: %w", repository.ErrStorageUnavailable)
	}
	return nil, service.ErrInvalidCredentials
}

func (s *stubUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

type stubPosts struct {
	posts []domain.InternshipPost
	err   error
}

func (s *stubPosts) ListActive(context.Context) ([]domain.InternshipPost, error) {
	return s.posts, s.err
}

type stubMedia struct {
	prefix string
}

func (s *stubMedia) ListObjects(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	s.prefix = prefix
	return []storage.ObjectInfo{{Key: "profiles/nikos.png", Size: 10}}, nil
}

func newRouter(posts *stubPosts, media storage.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	users := &stubUsers{users: map[int64]domain.User{
		7: {ID: 7, Username: "eleni", Email: "eleni@student.com", Role: domain.RoleStudent, CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
	}}
	if posts == nil {
		posts = &stubPosts{}
	}
	router := gin.New()
	NewHandler(users, posts, media, testSecret, time.Hour).RegisterRoutes(router)
	return router
}

func do(router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	router := newRouter(nil, nil)

	rec := do(router, http.MethodPost, "/api/auth/login", `{"username":"eleni","password":"pass1234"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	id, err := auth.ParseToken(resp.AccessToken, []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestLogin_Failures(t *testing.T) {
	router := newRouter(nil, nil)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"wrong password", `{"username":"eleni","password":"nope"}`, http.StatusUnauthorized},
		{"missing field", `{"username":"eleni"}`, http.StatusBadRequest},
		{"not json", `username=eleni`, http.StatusBadRequest},
		{"store down", `{"username":"broken","password":"x"}`, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(router, http.MethodPost, "/api/auth/login", tt.body, "")
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func TestMe(t *testing.T) {
	router := newRouter(nil, nil)

	token, err := auth.GenerateToken(7, []byte(testSecret), time.Hour)
	require.NoError(t, err)

	rec := do(router, http.MethodGet, "/api/auth/me", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "eleni", resp.Username)
	assert.Equal(t, domain.RoleStudent, resp.Role)
	assert.Equal(t, "2025-01-02T03:04:05Z", resp.CreatedAt)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestMe_Unauthorized(t *testing.T) {
	router := newRouter(nil, nil)

	rec := do(router, http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(router, http.MethodGet, "/api/auth/me", "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other, err := auth.GenerateToken(7, []byte("other-secret"), time.Hour)
	require.NoError(t, err)
	rec = do(router, http.MethodGet, "/api/auth/me", "", other)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	gone, err := auth.GenerateToken(99, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	rec = do(router, http.MethodGet, "/api/auth/me", "", gone)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListPosts(t *testing.T) {
	posts := &stubPosts{posts: []domain.InternshipPost{
		{ID: 1, CompanyUserID: 2, Title: "Flutter Intern", Department: "Software Development", IsActive: true},
	}}
	router := newRouter(posts, nil)

	rec := do(router, http.MethodGet, "/api/posts", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []InternshipPostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Flutter Intern", resp[0].Title)
	assert.Equal(t, "Software Development", resp[0].Department)

	posts.err = errors.New("boom")
	rec = do(router, http.MethodGet, "/api/posts", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListMedia(t *testing.T) {
	media := &stubMedia{}
	router := newRouter(nil, media)
	token, err := auth.GenerateToken(7, []byte(testSecret), time.Hour)
	require.NoError(t, err)

	rec := do(router, http.MethodGet, "/api/media?prefix=profiles", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "profiles", media.prefix)

	var resp []StorageObjectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "profiles/nikos.png", resp[0].Key)
	assert.Nil(t, resp[0].LastModified)

	rec = do(router, http.MethodGet, "/api/media", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	router := newRouter(nil, nil)

	rec := do(router, http.MethodOptions, "/api/posts", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
