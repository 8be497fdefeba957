package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeVerifier struct {
	userID string
	err    error
}

func (f *fakeVerifier) Verify(token string) (string, error) {
	return f.userID, f.err
}

func TestBearerAuth(t *testing.T) {
	tests := []struct {
		name         string
		header       string
		verifier     *fakeVerifier
		expectedCode int
		expectedUser string
	}{
		{
			name:         "missing header",
			header:       "",
			verifier:     &fakeVerifier{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "wrong scheme",
			header:       "Basic abc123",
			verifier:     &fakeVerifier{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "empty token",
			header:       "Bearer ",
			verifier:     &fakeVerifier{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "verifier rejects",
			header:       "Bearer stale",
			verifier:     &fakeVerifier{err: errors.New("token expired")},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "valid token",
			header:       "Bearer good",
			verifier:     &fakeVerifier{userID: "u1"},
			expectedCode: http.StatusOK,
			expectedUser: "u1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = GetUserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			BearerAuth(tt.verifier)(next).ServeHTTP(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("status = %d; want %d", rec.Code, tt.expectedCode)
			}
			if gotUser != tt.expectedUser {
				t.Errorf("user id = %q; want %q", gotUser, tt.expectedUser)
			}
		})
	}
}

func TestGetUserIDFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if got := GetUserIDFromContext(req.Context()); got != "" {
		t.Errorf("expected empty user id, got %q", got)
	}
}
