package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gousers/internal/domain"
	apperror "gousers/internal/errors"
	"gousers/internal/pkg/middleware"
)

// MockValidator é uma implementação mock de middleware.TokenValidator
type MockValidator struct {
	mock.Mock
}

func (m *MockValidator) ValidateToken(tokenString string) (domain.IdentityClaim, error) {
	args := m.Called(tokenString)
	return args.Get(0).(domain.IdentityClaim), args.Error(1)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) domain.ErrorResponse {
	t.Helper()
	var body domain.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAuthMiddleware_ValidTokenAttachesClaim(t *testing.T) {
	validator := new(MockValidator)
	claim := domain.IdentityClaim{SubjectID: "u-1", Role: domain.RoleAuthor, Email: "a@x.com"}
	validator.On("ValidateToken", "good-token").Return(claim, nil)

	var got domain.IdentityClaim
	next := func(w http.ResponseWriter, r *http.Request) {
		var ok bool
		got, ok = middleware.GetIdentityClaimFromContext(r.Context())
		assert.True(t, ok)
		w.WriteHeader(http.StatusOK)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	middleware.NewAuthMiddleware(validator)(next)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, claim, got)
	validator.AssertExpectations(t)
}

func TestAuthMiddleware_MissingOrMalformedHeader(t *testing.T) {
	validator := new(MockValidator)
	next := func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("o próximo handler não deveria ser chamado")
	}

	for _, header := range []string{"", "Basic abc", "Bearer ", "Bearer    ", "bearer token"} {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()

		middleware.NewAuthMiddleware(validator)(next)(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Equal(t, "missing token", decodeError(t, rec).Error)
	}
	validator.AssertNotCalled(t, "ValidateToken", mock.Anything)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	validator := new(MockValidator)
	validator.On("ValidateToken", "garbled").
		Return(domain.IdentityClaim{}, apperror.NewInvalidTokenError(errors.New("signature is invalid")))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer garbled")
	rec := httptest.NewRecorder()

	middleware.NewAuthMiddleware(validator)(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("o próximo handler não deveria ser chamado")
	})(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "invalid token", body.Error)
	assert.Empty(t, body.Detail, "a causa não deve vazar para o cliente")
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")

	tok, ok := middleware.BearerToken(req)
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", tok)
}
