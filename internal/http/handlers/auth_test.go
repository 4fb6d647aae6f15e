package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fasttrackbd/courier/internal/config"
	"github.com/fasttrackbd/courier/internal/domain/user"
	"github.com/fasttrackbd/courier/internal/http/handlers"
	"github.com/fasttrackbd/courier/internal/security"
)

// Fake user store implementing handlers.UserStore

type fakeUserStore struct {
	createFn        func(ctx context.Context, username, passwordHash, phone, email, role string) (user.User, error)
	getByUsernameFn func(ctx context.Context, username string) (user.User, error)
}

func (f *fakeUserStore) Create(ctx context.Context, username, passwordHash, phone, email, role string) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, username, passwordHash, phone, email, role)
	}

	return user.User{}, nil
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (user.User, error) {
	if f.getByUsernameFn != nil {
		return f.getByUsernameFn(ctx, username)
	}

	return user.User{}, user.ErrNotFound
}

type fakeTokenIssuer struct{}

func (f *fakeTokenIssuer) GenerateAccessToken(userID, username, role string) (string, error) {
	return "test-token", nil
}

func testConfig() config.Config {
	return config.Config{AllowedEmailDomain: "@gmail.com"}
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		storeSetup     func(*fakeUserStore)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{
				"username": "karim",
				"password": "secret123",
				"phone": "01712345678",
				"email": "karim@gmail.com"
			}`,
			storeSetup: func(f *fakeUserStore) {
				f.createFn = func(ctx context.Context, username, passwordHash, phone, email, role string) (user.User, error) {
					if role != user.RoleClient {
						return user.User{}, errors.New("self-registration must create clients")
					}
					if passwordHash == "secret123" {
						return user.User{}, errors.New("password stored in plain text")
					}

					return user.User{
						ID:           "USER-1",
						Username:     username,
						PasswordHash: passwordHash,
						Phone:        phone,
						Email:        email,
						Role:         role,
					}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "wrong_email_domain",
			body: `{
				"username": "karim",
				"password": "secret123",
				"phone": "01712345678",
				"email": "karim@example.org"
			}`,
			storeSetup: func(f *fakeUserStore) {
				// store should not be reached
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "username_taken",
			body: `{
				"username": "karim",
				"password": "secret123",
				"phone": "01712345678",
				"email": "karim@gmail.com"
			}`,
			storeSetup: func(f *fakeUserStore) {
				f.createFn = func(ctx context.Context, username, passwordHash, phone, email, role string) (user.User, error) {
					return user.User{}, user.ErrUsernameTaken
				}
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name: "short_password",
			body: `{
				"username": "karim",
				"password": "abc",
				"phone": "01712345678",
				"email": "karim@gmail.com"
			}`,
			storeSetup: func(f *fakeUserStore) {
				// validation failure, store untouched
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			store := &fakeUserStore{}

			if tt.storeSetup != nil {
				tt.storeSetup(store)
			}

			h := handlers.NewAuthHandler(store, &fakeTokenIssuer{}, testConfig())
			r := setupRouter(http.MethodPost, "/register", h.Register)

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			// the stored hash must never leak into the response
			if w.Code == http.StatusCreated && bytes.Contains(w.Body.Bytes(), []byte("passwordHash")) {
				t.Fatalf("response leaks password hash: %s", w.Body.String())
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	hash, err := security.HashPassword("secret123")
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}

	stored := user.User{
		ID:           "USER-1",
		Username:     "karim",
		PasswordHash: hash,
		Role:         user.RoleClient,
	}

	tests := []struct {
		name           string
		body           string
		storeSetup     func(*fakeUserStore)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"username": "karim", "password": "secret123"}`,
			storeSetup: func(f *fakeUserStore) {
				f.getByUsernameFn = func(ctx context.Context, username string) (user.User, error) {
					return stored, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "wrong_password",
			body: `{"username": "karim", "password": "nope-nope"}`,
			storeSetup: func(f *fakeUserStore) {
				f.getByUsernameFn = func(ctx context.Context, username string) (user.User, error) {
					return stored, nil
				}
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name: "unknown_user",
			body: `{"username": "ghost", "password": "secret123"}`,
			storeSetup: func(f *fakeUserStore) {
				f.getByUsernameFn = func(ctx context.Context, username string) (user.User, error) {
					return user.User{}, user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name: "missing_fields",
			body: `{"username": "karim"}`,
			storeSetup: func(f *fakeUserStore) {
				// validation failure, store untouched
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			store := &fakeUserStore{}

			if tt.storeSetup != nil {
				tt.storeSetup(store)
			}

			h := handlers.NewAuthHandler(store, &fakeTokenIssuer{}, testConfig())
			r := setupRouter(http.MethodPost, "/login", h.Login)

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				var resp struct {
					AccessToken string `json:"accessToken"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.AccessToken == "" {
					t.Fatalf("expected an access token in the response")
				}
			}
		})
	}
}
