package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskforge/taskforge-api/internal/domain"
	"github.com/taskforge/taskforge-api/internal/mocks"
	"github.com/taskforge/taskforge-api/internal/service/auth"
)

func postJSON(t *testing.T, handler http.HandlerFunc, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payloadBytes, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", target, bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func decodeFieldErrors(t *testing.T, recorder *httptest.ResponseRecorder) map[string][]string {
	t.Helper()

	var resp struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	return resp.Errors
}

func TestRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		payload     map[string]interface{}
		wantStatus  int
		wantFields  []string
		wantCreated bool
	}{
		{
			name: "valid registration",
			payload: map[string]interface{}{
				"username":         "alice",
				"email":            "alice@example.com",
				"password":         "password1234",
				"password_confirm": "password1234",
			},
			wantStatus:  http.StatusCreated,
			wantCreated: true,
		},
		{
			name: "invalid email",
			payload: map[string]interface{}{
				"username":         "alice",
				"email":            "not-an-email",
				"password":         "password1234",
				"password_confirm": "password1234",
			},
			wantStatus: http.StatusBadRequest,
			wantFields: []string{"email"},
		},
		{
			name: "password confirmation mismatch",
			payload: map[string]interface{}{
				"username":         "alice",
				"email":            "alice@example.com",
				"password":         "password1234",
				"password_confirm": "different1234",
			},
			wantStatus: http.StatusBadRequest,
			wantFields: []string{"password_confirm"},
		},
		{
			name: "username with forbidden characters",
			payload: map[string]interface{}{
				"username":         "alice smith",
				"email":            "alice@example.com",
				"password":         "password1234",
				"password_confirm": "password1234",
			},
			wantStatus: http.StatusBadRequest,
			wantFields: []string{"username"},
		},
		{
			name: "multiple violations reported together",
			payload: map[string]interface{}{
				"username":         "ab",
				"email":            "not-an-email",
				"password":         "short",
				"password_confirm": "short",
			},
			wantStatus: http.StatusBadRequest,
			wantFields: []string{"username", "email", "password"},
		},
		{
			name:       "empty payload",
			payload:    map[string]interface{}{},
			wantStatus: http.StatusBadRequest,
			wantFields: []string{"username", "email", "password", "password_confirm"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userStore := mocks.NewMockUserStore()
			handler := NewAuthHandler(
				userStore,
				&mocks.MockJWTService{},
				&mocks.MockPasswordHasher{},
				&mocks.MockPasswordVerifier{},
				nil,
			)

			recorder := postJSON(t, handler.Register, "/api/auth/register", tt.payload)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantCreated {
				var resp RegisterResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.NotEqual(t, uuid.Nil, resp.ID)
				assert.Equal(t, "alice", resp.Username)
				assert.Equal(t, "alice@example.com", resp.Email)
				assert.NotContains(t, recorder.Body.String(), "password")

				created, err := userStore.GetByUsername(context.Background(), "alice")
				require.NoError(t, err)
				assert.NotEqual(t, "password1234", created.HashedPassword,
					"plaintext password must never be stored")
				return
			}

			fieldErrors := decodeFieldErrors(t, recorder)
			for _, field := range tt.wantFields {
				assert.Contains(t, fieldErrors, field)
			}
		})
	}
}

func TestRegisterDuplicates(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	handler := NewAuthHandler(
		userStore,
		&mocks.MockJWTService{},
		&mocks.MockPasswordHasher{},
		&mocks.MockPasswordVerifier{},
		nil,
	)

	first := map[string]interface{}{
		"username":         "bob",
		"email":            "bob@example.com",
		"password":         "password1234",
		"password_confirm": "password1234",
	}
	recorder := postJSON(t, handler.Register, "/api/auth/register", first)
	require.Equal(t, http.StatusCreated, recorder.Code)

	t.Run("duplicate username", func(t *testing.T) {
		recorder := postJSON(t, handler.Register, "/api/auth/register", map[string]interface{}{
			"username":         "bob",
			"email":            "other@example.com",
			"password":         "password1234",
			"password_confirm": "password1234",
		})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		fieldErrors := decodeFieldErrors(t, recorder)
		assert.Contains(t, fieldErrors, "username")
	})

	t.Run("duplicate email", func(t *testing.T) {
		recorder := postJSON(t, handler.Register, "/api/auth/register", map[string]interface{}{
			"username":         "bobby",
			"email":            "bob@example.com",
			"password":         "password1234",
			"password_confirm": "password1234",
		})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		fieldErrors := decodeFieldErrors(t, recorder)
		assert.Contains(t, fieldErrors, "email")
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	user := &domain.User{
		ID:             userID,
		Username:       "carol",
		Email:          "carol@example.com",
		HashedPassword: "stored-hash",
	}

	tests := []struct {
		name        string
		payload     map[string]interface{}
		verifierErr error
		wantStatus  int
		wantTokens  bool
	}{
		{
			name: "valid credentials",
			payload: map[string]interface{}{
				"username": "carol",
				"password": "password1234",
			},
			wantStatus: http.StatusOK,
			wantTokens: true,
		},
		{
			name: "unknown username",
			payload: map[string]interface{}{
				"username": "nobody",
				"password": "password1234",
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			payload: map[string]interface{}{
				"username": "carol",
				"password": "wrong-password",
			},
			verifierErr: errors.New("crypto/bcrypt: hashedPassword is not the hash of the given password"),
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name: "missing fields",
			payload: map[string]interface{}{
				"username": "carol",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userStore := mocks.NewMockUserStore()
			userStore.Users[user.Username] = user

			handler := NewAuthHandler(
				userStore,
				&mocks.MockJWTService{Token: "access-token", RefreshToken: "refresh-token"},
				&mocks.MockPasswordHasher{},
				&mocks.MockPasswordVerifier{Err: tt.verifierErr},
				nil,
			)

			recorder := postJSON(t, handler.Login, "/api/auth/login", tt.payload)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantTokens {
				var resp LoginResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, "access-token", resp.Access)
				assert.Equal(t, "refresh-token", resp.Refresh)
			}
		})
	}

	t.Run("unknown user and wrong password are indistinguishable", func(t *testing.T) {
		userStore := mocks.NewMockUserStore()
		userStore.Users[user.Username] = user

		wrongPassword := NewAuthHandler(
			userStore,
			&mocks.MockJWTService{Token: "access-token"},
			&mocks.MockPasswordHasher{},
			&mocks.MockPasswordVerifier{Err: errors.New("mismatch")},
			nil,
		)
		unknownUser := NewAuthHandler(
			mocks.NewMockUserStore(),
			&mocks.MockJWTService{Token: "access-token"},
			&mocks.MockPasswordHasher{},
			&mocks.MockPasswordVerifier{},
			nil,
		)

		rec1 := postJSON(t, wrongPassword.Login, "/api/auth/login", map[string]interface{}{
			"username": "carol", "password": "wrong",
		})
		rec2 := postJSON(t, unknownUser.Login, "/api/auth/login", map[string]interface{}{
			"username": "carol", "password": "wrong",
		})

		assert.Equal(t, rec1.Code, rec2.Code)
		assert.JSONEq(t, rec1.Body.String(), rec2.Body.String())
	})
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name        string
		payload     map[string]interface{}
		validateErr error
		wantStatus  int
		wantAccess  bool
	}{
		{
			name:       "valid refresh token",
			payload:    map[string]interface{}{"refresh": "good-refresh-token"},
			wantStatus: http.StatusOK,
			wantAccess: true,
		},
		{
			name:        "expired refresh token",
			payload:     map[string]interface{}{"refresh": "expired-refresh-token"},
			validateErr: auth.ErrExpiredRefreshToken,
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "access token presented as refresh token",
			payload:     map[string]interface{}{"refresh": "an-access-token"},
			validateErr: auth.ErrWrongTokenType,
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "garbage token",
			payload:     map[string]interface{}{"refresh": "garbage"},
			validateErr: auth.ErrInvalidRefreshToken,
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:       "missing refresh field",
			payload:    map[string]interface{}{},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService := &mocks.MockJWTService{
				Token:       "new-access-token",
				Claims:      &auth.Claims{UserID: userID, TokenType: "refresh"},
				ValidateErr: tt.validateErr,
			}

			handler := NewAuthHandler(
				mocks.NewMockUserStore(),
				jwtService,
				&mocks.MockPasswordHasher{},
				&mocks.MockPasswordVerifier{},
				nil,
			)

			recorder := postJSON(t, handler.RefreshToken, "/api/auth/token/refresh", tt.payload)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantAccess {
				var resp RefreshResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, "new-access-token", resp.Access)
				assert.NotContains(t, recorder.Body.String(), "refresh",
					"refresh endpoint must not rotate the refresh token")
			}
		})
	}
}
