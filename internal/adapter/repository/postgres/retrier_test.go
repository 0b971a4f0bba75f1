package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestRetrierRetriesOnDeadlock(t *testing.T) {
	retrier := NewRetrier()
	retrier.initialInterval = time.Millisecond
	retrier.maxInterval = time.Millisecond

	attempts := 0
	err := retrier.Retry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return &pgconn.PgError{Code: pgErrDeadlock}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetrierStopsOnPermanentError(t *testing.T) {
	retrier := NewRetrier()
	permanent := errors.New("constraint violation")

	attempts := 0
	err := retrier.Retry(context.Background(), func() error {
		attempts++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestRetrierGivesUpAfterMaxRetries(t *testing.T) {
	retrier := NewRetrier()
	retrier.initialInterval = time.Millisecond
	retrier.maxInterval = time.Millisecond

	attempts := 0
	err := retrier.Retry(context.Background(), func() error {
		attempts++
		return &pgconn.PgError{Code: pgErrSerializationFailure}
	})
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if attempts != retrier.maxRetries+1 {
		t.Fatalf("expected %d attempts, got %d", retrier.maxRetries+1, attempts)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{
			name:      "deadlock detected",
			err:       &pgconn.PgError{Code: pgErrDeadlock},
			retryable: true,
		},
		{
			name:      "serialization failure",
			err:       &pgconn.PgError{Code: pgErrSerializationFailure},
			retryable: true,
		},
		{
			name:      "unique violation",
			err:       &pgconn.PgError{Code: "23505"},
			retryable: false,
		},
		{
			name:      "plain error",
			err:       errors.New("connection reset"),
			retryable: false,
		},
		{
			name:      "nil error",
			err:       nil,
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.retryable {
				t.Fatalf("isRetryableError() = %v, want %v", got, tt.retryable)
			}
		})
	}
}
