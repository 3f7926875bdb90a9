package store

import (
	"errors"
	"testing"
	"time"
)

func TestIsTransientSQLiteErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"permanent", errors.New("no such table: tasks"), false},
		{"busy text", errors.New("SQLITE_BUSY"), true},
		{"locked text", errors.New("SQLITE_LOCKED"), true},
		{"short read text", errors.New("IOERR_SHORT_READ"), true},
		{"database is locked", errors.New("database is locked"), true},
		{"busy code", errors.New("sqlite: (5) database is busy"), true},
		{"locked code", errors.New("sqlite: (6) table is locked"), true},
		{"short read code", errors.New("sqlite: (522) short read"), true},
		{"wrapped", errors.New("put task: SQLITE_BUSY: db locked"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransientSQLiteErr(tt.err); got != tt.want {
				t.Errorf("isTransientSQLiteErr(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryOp_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := retryOp(defaultRetryConfig, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Fatalf("err=%v calls=%d, want nil and 1 call", err, calls)
	}
}

func TestRetryOp_PermanentErrorNotRetried(t *testing.T) {
	calls := 0
	permanent := errors.New("constraint failed")
	err := retryOp(defaultRetryConfig, func() error {
		calls++
		return permanent
	})
	if err != permanent {
		t.Fatalf("err=%v, want the permanent error", err)
	}
	if calls != 1 {
		t.Fatalf("calls=%d, want 1 (no retry)", calls)
	}
}

func TestRetryOp_RecoversFromContention(t *testing.T) {
	calls := 0
	cfg := retryConfig{maxRetries: 3, baseDelay: time.Millisecond, maxDelay: 5 * time.Millisecond}
	err := retryOp(cfg, func() error {
		calls++
		if calls < 3 {
			return errors.New("SQLITE_BUSY")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("err=%v, want recovery", err)
	}
	if calls != 3 {
		t.Fatalf("calls=%d, want 3", calls)
	}
}

func TestRetryOp_ExhaustsRetries(t *testing.T) {
	calls := 0
	cfg := retryConfig{maxRetries: 2, baseDelay: time.Millisecond, maxDelay: 5 * time.Millisecond}
	err := retryOp(cfg, func() error {
		calls++
		return errors.New("database is locked")
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	// Initial attempt plus maxRetries.
	if calls != 3 {
		t.Fatalf("calls=%d, want 3", calls)
	}
}

func TestBackoffDelay_GrowsAndCaps(t *testing.T) {
	cfg := retryConfig{baseDelay: 50 * time.Millisecond, maxDelay: 200 * time.Millisecond}

	d0 := backoffDelay(cfg, 0)
	if d0 < 50*time.Millisecond || d0 >= 100*time.Millisecond {
		t.Errorf("attempt 0 delay %v not in [50ms, 100ms)", d0)
	}
	d1 := backoffDelay(cfg, 1)
	if d1 < 100*time.Millisecond || d1 >= 150*time.Millisecond {
		t.Errorf("attempt 1 delay %v not in [100ms, 150ms)", d1)
	}
	// 50ms << 4 = 800ms, capped at 200ms before jitter.
	d4 := backoffDelay(cfg, 4)
	if d4 >= 250*time.Millisecond {
		t.Errorf("attempt 4 delay %v exceeds cap + jitter", d4)
	}
}
