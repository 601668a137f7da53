package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadhub/internal/feature/auth/domain/entity"
	"leadhub/internal/feature/auth/usecase"
	jwtmw "leadhub/internal/platform/jwt"
	"leadhub/internal/platform/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validation.Setup(nil); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// mockAuthUsecase is a mock implementation of the AuthUsecase interface.
type mockAuthUsecase struct {
	RegisterFunc func(ctx context.Context, name, email, password string) (*usecase.AuthResult, error)
	LoginFunc    func(ctx context.Context, email, password string) (*usecase.AuthResult, error)
}

func (m *mockAuthUsecase) Register(ctx context.Context, name, email, password string) (*usecase.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, name, email, password)
	}
	return nil, errors.New("register not mocked")
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, usecase.ErrInvalidCredentials // Default: failure
}

var testUser = &entity.User{
	ID:        "u1",
	Name:      "Ada",
	Email:     "ada@example.com",
	Password:  "secret-hash",
	CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
}

func okResult(ctx context.Context, _ ...string) (*usecase.AuthResult, error) {
	return &usecase.AuthResult{Token: "dummy-jwt-token", User: testUser}, nil
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, gin.H) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, _ := http.NewRequest(method, path, bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var responseBody gin.H
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseBody))
	return w, responseBody
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name             string
		requestBody      gin.H
		mockRegisterFunc func(ctx context.Context, name, email, password string) (*usecase.AuthResult, error)
		expectedStatus   int
		expectedMessage  string
	}{
		{
			name:        "success: user registration",
			requestBody: gin.H{"name": "Ada", "email": "ada@example.com", "password": "password123"},
			mockRegisterFunc: func(ctx context.Context, name, email, password string) (*usecase.AuthResult, error) {
				return okResult(ctx)
			},
			expectedStatus:  http.StatusCreated,
			expectedMessage: "User registered successfully",
		},
		{
			name:            "failure: missing name",
			requestBody:     gin.H{"email": "ada@example.com", "password": "password123"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "name is required",
		},
		{
			name:        "failure: whitespace-only name",
			requestBody: gin.H{"name": "   ", "email": "ada@example.com", "password": "password123"},
			mockRegisterFunc: func(ctx context.Context, name, email, password string) (*usecase.AuthResult, error) {
				return nil, usecase.ErrNameRequired
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "name is required",
		},
		{
			name:            "failure: invalid email address",
			requestBody:     gin.H{"name": "Ada", "email": "invalid-email", "password": "password123"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "email must be a valid email address",
		},
		{
			name:            "failure: short password",
			requestBody:     gin.H{"name": "Ada", "email": "ada@example.com", "password": "short"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "password must be at least 8 characters",
		},
		{
			name:        "failure: duplicate email",
			requestBody: gin.H{"name": "Ada", "email": "existing@example.com", "password": "password123"},
			mockRegisterFunc: func(ctx context.Context, name, email, password string) (*usecase.AuthResult, error) {
				return nil, usecase.ErrEmailAlreadyExists
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "User already exists",
		},
		{
			name:        "failure: store error",
			requestBody: gin.H{"name": "Ada", "email": "ada@example.com", "password": "password123"},
			mockRegisterFunc: func(ctx context.Context, name, email, password string) (*usecase.AuthResult, error) {
				return nil, errors.New("connection reset")
			},
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Server error during registration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(&mockAuthUsecase{RegisterFunc: tt.mockRegisterFunc})
			router := gin.New()
			router.POST("/register", handler.Register)

			w, body := doJSON(t, router, http.MethodPost, "/register", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedMessage, body["message"])
			assert.Equal(t, tt.expectedStatus < 400, body["success"])
		})
	}
}

func TestAuthHandler_Register_ResponseShape(t *testing.T) {
	handler := NewAuthHandler(&mockAuthUsecase{
		RegisterFunc: func(ctx context.Context, name, email, password string) (*usecase.AuthResult, error) {
			return okResult(ctx)
		},
	})
	router := gin.New()
	router.POST("/register", handler.Register)

	w, body := doJSON(t, router, http.MethodPost, "/register",
		gin.H{"name": "Ada", "email": "ada@example.com", "password": "password123"})

	require.Equal(t, http.StatusCreated, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "dummy-jwt-token", data["token"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "u1", user["_id"])
	assert.Equal(t, "ada@example.com", user["email"])
	assert.NotContains(t, user, "password", "password hash must never be serialized")
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name            string
		requestBody     gin.H
		mockLoginFunc   func(ctx context.Context, email, password string) (*usecase.AuthResult, error)
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:        "success: user login",
			requestBody: gin.H{"email": "ada@example.com", "password": "password123"},
			mockLoginFunc: func(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
				return okResult(ctx)
			},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Login successful",
		},
		{
			name:            "failure: missing password",
			requestBody:     gin.H{"email": "ada@example.com"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "password is required",
		},
		{
			name:            "failure: invalid credentials",
			requestBody:     gin.H{"email": "wrong@example.com", "password": "wrong-password"},
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid email or password",
		},
		{
			name:        "failure: store error is not reported as bad credentials",
			requestBody: gin.H{"email": "ada@example.com", "password": "password123"},
			mockLoginFunc: func(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
				return nil, errors.New("timeout")
			},
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Server error during login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(&mockAuthUsecase{LoginFunc: tt.mockLoginFunc})
			router := gin.New()
			router.POST("/login", handler.Login)

			w, body := doJSON(t, router, http.MethodPost, "/login", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedMessage, body["message"])
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	handler := NewAuthHandler(&mockAuthUsecase{})

	t.Run("returns the authenticated user", func(t *testing.T) {
		router := gin.New()
		router.GET("/me", func(c *gin.Context) {
			c.Set(jwtmw.ContextUserID, testUser.ID)
			c.Set(jwtmw.ContextUser, testUser)
		}, handler.Me)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body gin.H
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		data := body["data"].(map[string]any)
		assert.Equal(t, "Ada", data["name"])
		assert.NotContains(t, data, "password")
	})

	t.Run("no user in context", func(t *testing.T) {
		router := gin.New()
		router.GET("/me", handler.Me)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
