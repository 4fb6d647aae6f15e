package middlewares_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/fasttrackbd/courier/internal/domain/apikey"
	"github.com/fasttrackbd/courier/internal/http/middlewares"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeKeyVerifier struct {
	verifyFn func(ctx context.Context, raw string) (apikey.Key, error)
}

func (f *fakeKeyVerifier) VerifyAndTouch(ctx context.Context, raw string) (apikey.Key, error) {
	if f.verifyFn != nil {
		return f.verifyFn(ctx, raw)
	}

	return apikey.Key{}, apikey.ErrInvalid
}

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		header         string
		verifyFn       func(ctx context.Context, raw string) (apikey.Key, error)
		wantStatusCode int
	}{
		{
			name:   "valid_key",
			header: "ftc_abc123",
			verifyFn: func(ctx context.Context, raw string) (apikey.Key, error) {
				if raw != "ftc_abc123" {
					return apikey.Key{}, errors.New("wrong raw key passed through")
				}

				return apikey.Key{ID: "key-1", Key: raw, Active: true}, nil
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing_header",
			header:         "",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:   "invalid_key",
			header: "ftc_revoked",
			verifyFn: func(ctx context.Context, raw string) (apikey.Key, error) {
				return apikey.Key{}, apikey.ErrInvalid
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:   "store_error",
			header: "ftc_abc123",
			verifyFn: func(ctx context.Context, raw string) (apikey.Key, error) {
				return apikey.Key{}, errors.New("disk error")
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			mw := middlewares.NewAPIKeyMiddleware(&fakeKeyVerifier{verifyFn: tt.verifyFn})

			var seenKeyID string

			r := gin.New()
			r.GET("/parcels", mw.Require(), func(c *gin.Context) {
				seenKeyID = c.GetString(middlewares.CtxAPIKeyID)
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})

			req := httptest.NewRequest(http.MethodGet, "/parcels", nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK && seenKeyID != "key-1" {
				t.Fatalf("handler did not see the key id, got %q", seenKeyID)
			}
		})
	}
}
