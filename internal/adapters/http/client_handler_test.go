package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clienthub/internal/config"
	"clienthub/internal/domain"
	"clienthub/internal/logger"
)

type fakeOnboarding struct {
	registerErr   error
	sequentialErr error
	user          *domain.User

	registered     int
	sequentialRuns int
}

func (f *fakeOnboarding) Register(_ context.Context, req domain.RegisterRequest, _ []byte) (*domain.User, error) {
	f.registered++
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.result(req), nil
}

func (f *fakeOnboarding) RegisterSequential(_ context.Context, req domain.RegisterRequest, _ []byte) (*domain.User, error) {
	f.sequentialRuns++
	if f.sequentialErr != nil {
		return nil, f.sequentialErr
	}
	return f.result(req), nil
}

func (f *fakeOnboarding) result(req domain.RegisterRequest) *domain.User {
	if f.user != nil {
		return f.user
	}
	url := "/avatars/generated.png"
	return &domain.User{ID: 1, Email: req.Email, AvatarURL: &url, IsActive: true}
}

func (f *fakeOnboarding) GetByID(_ context.Context, userID int64) (*domain.User, error) {
	if f.user != nil && f.user.ID == userID {
		return f.user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeOnboarding) DeleteByID(_ context.Context, userID int64) error {
	if f.user != nil && f.user.ID == userID {
		return nil
	}
	return domain.ErrUserNotFound
}

func testRouter(svc domain.OnboardingService) http.Handler {
	cfg := &config.Config{AvatarURLPrefix: "/avatars", AvatarDir: "avatars"}
	log := logger.Discard()
	return NewRouter(cfg, log, &RouterDeps{
		Client: NewClientHandler(svc, log),
		Auth:   NewAuthHandler(nil, log),
	})
}

func multipartBody(t *testing.T, fields map[string]string, avatar []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if avatar != nil {
		fw, err := mw.CreateFormFile("avatar", "ava.png")
		require.NoError(t, err)
		_, err = fw.Write(avatar)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"gender":     "female",
		"first_name": "Image",
		"last_name":  "Tester",
		"email":      "tester@example.com",
		"password":   "securepassword",
	}
}

func postRegistration(t *testing.T, router http.Handler, path string, fields map[string]string, avatar []byte) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, fields, avatar)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreate_Success(t *testing.T) {
	svc := &fakeOnboarding{}
	router := testRouter(svc)

	rec := postRegistration(t, router, "/api/clients/create", validFields(), []byte("image"))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, svc.registered)

	var user domain.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "tester@example.com", user.Email)
	require.NotNil(t, user.AvatarURL)
}

func TestCreate_ValidationRejectsBeforeService(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"malformed email", "email", "example.com"},
		{"short password", "password", "se"},
		{"unknown gender", "gender", "other"},
		{"missing first name", "first_name", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeOnboarding{}
			router := testRouter(svc)

			fields := validFields()
			fields[tt.field] = tt.value

			rec := postRegistration(t, router, "/api/clients/create", fields, []byte("image"))

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Zero(t, svc.registered, "invalid input never reaches the coordinator")

			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp.Errors, tt.field)
		})
	}
}

func TestCreate_MissingAvatarFile(t *testing.T) {
	svc := &fakeOnboarding{}
	router := testRouter(svc)

	rec := postRegistration(t, router, "/api/clients/create", validFields(), nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.registered)
}

func TestCreate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"duplicate email", domain.ErrEmailAlreadyRegistered, http.StatusConflict},
		{"invalid image", domain.ErrInvalidImage, http.StatusBadRequest},
		{"combined conflict", domain.ErrCombinedConflict, http.StatusBadRequest},
		{"image processing fault", domain.ErrImageProcessing, http.StatusInternalServerError},
		{"database fault", domain.ErrDatabase, http.StatusInternalServerError},
		{"internal fault", domain.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := testRouter(&fakeOnboarding{registerErr: tt.err})

			rec := postRegistration(t, router, "/api/clients/create", validFields(), []byte("image"))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestCreateSequential_UsesFallbackPath(t *testing.T) {
	svc := &fakeOnboarding{}
	router := testRouter(svc)

	rec := postRegistration(t, router, "/api/clients/create2", validFields(), []byte("image"))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, svc.sequentialRuns)
	assert.Zero(t, svc.registered)
}

func TestShow(t *testing.T) {
	url := "/avatars/a.png"
	svc := &fakeOnboarding{user: &domain.User{ID: 7, Email: "known@example.com", AvatarURL: &url, IsActive: true}}
	router := testRouter(svc)

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/clients/7", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var user domain.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.Equal(t, int64(7), user.ID)
	})

	t.Run("missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/clients/99999", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/clients/abc", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDestroy(t *testing.T) {
	svc := &fakeOnboarding{user: &domain.User{ID: 7, IsActive: true}}
	router := testRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/clients/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/clients/8", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
