package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/commute-coach/internal/types"
)

func registerUser(t *testing.T, s *testServer, name, email, password string) types.LoginResponse {
	t.Helper()
	body, err := json.Marshal(types.CreateUserRequest{Name: name, Email: email, Password: password})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.authHandler.Register(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRegister_Success(t *testing.T) {
	s := newTestServer()

	resp := registerUser(t, s, "Rider", "rider@example.com", "password123")

	require.NotNil(t, resp.User)
	assert.Equal(t, "Rider", resp.User.Name)
	assert.Equal(t, "rider@example.com", resp.User.Email)
	assert.True(t, resp.User.PasswordSet)
	assert.NotEmpty(t, resp.Token)

	// Token is usable
	claims, err := s.jwtService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newTestServer()
	registerUser(t, s, "Rider", "rider@example.com", "password123")

	body, _ := json.Marshal(types.CreateUserRequest{Name: "Other", Email: "rider@example.com", Password: "password456"})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.authHandler.Register(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegister_Validation(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name string
		body string
	}{
		{name: "short password", body: `{"name": "A", "email": "a@example.com", "password": "short"}`},
		{name: "bad email", body: `{"name": "A", "email": "not-an-email", "password": "password123"}`},
		{name: "missing name", body: `{"email": "a@example.com", "password": "password123"}`},
		{name: "invalid json", body: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			s.authHandler.Register(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestLogin_Success(t *testing.T) {
	s := newTestServer()
	registered := registerUser(t, s, "Rider", "rider@example.com", "password123")

	body, _ := json.Marshal(types.LoginRequest{Email: "rider@example.com", Password: "password123"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.authHandler.Login(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, registered.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newTestServer()
	registerUser(t, s, "Rider", "rider@example.com", "password123")

	body, _ := json.Marshal(types.LoginRequest{Email: "rider@example.com", Password: "wrong-password"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.authHandler.Login(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	s := newTestServer()

	body, _ := json.Marshal(types.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.authHandler.Login(w, req)

	// Same status as wrong password; no user enumeration
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdatePassword_Flow(t *testing.T) {
	s := newTestServer()
	registered := registerUser(t, s, "Rider", "rider@example.com", "password123")

	body, _ := json.Marshal(types.UpdatePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "new-password-456",
	})
	req := httptest.NewRequest(http.MethodPut, "/me/password", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.authHandler.UpdatePasswordWithUserID(w, req, registered.User.ID)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Old password no longer works
	loginBody, _ := json.Marshal(types.LoginRequest{Email: "rider@example.com", Password: "password123"})
	req = httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(loginBody))
	w = httptest.NewRecorder()
	s.authHandler.Login(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// New password does
	loginBody, _ = json.Marshal(types.LoginRequest{Email: "rider@example.com", Password: "new-password-456"})
	req = httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(loginBody))
	w = httptest.NewRecorder()
	s.authHandler.Login(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdatePassword_WrongCurrent(t *testing.T) {
	s := newTestServer()
	registered := registerUser(t, s, "Rider", "rider@example.com", "password123")

	body, _ := json.Marshal(types.UpdatePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "new-password-456",
	})
	req := httptest.NewRequest(http.MethodPut, "/me/password", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.authHandler.UpdatePasswordWithUserID(w, req, registered.User.ID)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdatePassword_UnknownUser(t *testing.T) {
	s := newTestServer()

	body, _ := json.Marshal(types.UpdatePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "new-password-456",
	})
	req := httptest.NewRequest(http.MethodPut, "/me/password", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.authHandler.UpdatePasswordWithUserID(w, req, uuid.New())

	assert.Equal(t, http.StatusNotFound, w.Code)
}
