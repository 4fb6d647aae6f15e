package jsonfile_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fasttrackbd/courier/internal/domain/apikey"
	repo "github.com/fasttrackbd/courier/internal/repo/jsonfile"
	storefile "github.com/fasttrackbd/courier/internal/store/jsonfile"
)

func newKeysRepo(t *testing.T) *repo.APIKeysRepo {
	t.Helper()

	col := storefile.NewCollection[apikey.Key](filepath.Join(t.TempDir(), "api-keys.json"))

	return repo.NewAPIKeysRepo(col, nil)
}

func TestGenerateKey(t *testing.T) {
	r := newKeysRepo(t)

	k, err := r.Generate(context.Background(), "ci-pipeline", "read-only access for CI")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if !strings.HasPrefix(k.Key, "ftc_") {
		t.Fatalf("key %q missing the ftc_ prefix", k.Key)
	}
	if strings.Contains(k.Key, "-") {
		t.Fatalf("key %q should have dashes stripped", k.Key)
	}
	if !k.Active || k.UsageCount != 0 {
		t.Fatalf("fresh key should be active and unused: %+v", k)
	}

	keys, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(keys) != 1 || keys[0].ID != k.ID {
		t.Fatalf("key not persisted: %+v", keys)
	}
}

func TestVerifyAndTouch(t *testing.T) {
	r := newKeysRepo(t)
	ctx := context.Background()

	k, err := r.Generate(ctx, "partner", "")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	// every verification bumps the usage counter and stamps last use
	for i := 1; i <= 3; i++ {
		got, err := r.VerifyAndTouch(ctx, k.Key)
		if err != nil {
			t.Fatalf("verify %d failed: %v", i, err)
		}
		if got.UsageCount != i {
			t.Fatalf("got usage count %d, want %d", got.UsageCount, i)
		}
		if got.LastUsed == nil || *got.LastUsed == "" {
			t.Fatalf("last used not stamped")
		}
	}

	if _, err := r.VerifyAndTouch(ctx, "ftc_doesnotexist"); !errors.Is(err, apikey.ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid", err)
	}
}

func TestRevokeKey(t *testing.T) {
	r := newKeysRepo(t)
	ctx := context.Background()

	k, err := r.Generate(ctx, "partner", "")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if err := r.Revoke(ctx, k.ID); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	// a revoked key no longer authenticates
	if _, err := r.VerifyAndTouch(ctx, k.Key); !errors.Is(err, apikey.ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid after revoke", err)
	}

	// but it stays listed for auditing
	keys, err := r.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(keys) != 1 || keys[0].Active || keys[0].RevokedAt == nil {
		t.Fatalf("revoked key should remain with active=false: %+v", keys)
	}

	if err := r.Revoke(ctx, "missing"); !errors.Is(err, apikey.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteKey(t *testing.T) {
	r := newKeysRepo(t)
	ctx := context.Background()

	k, err := r.Generate(ctx, "partner", "")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if err := r.Delete(ctx, k.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	keys, err := r.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("key should be gone: %+v", keys)
	}

	if err := r.Delete(ctx, k.ID); !errors.Is(err, apikey.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
