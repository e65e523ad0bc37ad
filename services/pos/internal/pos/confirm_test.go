package pos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestConfirmationsConfirm(t *testing.T) {
	c := NewConfirmations(time.Minute)

	runs := 0
	pending := c.Request("cancel order", "42", func(ctx context.Context) error {
		runs++
		return nil
	})
	if c.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", c.Count())
	}

	if err := c.Confirm(context.Background(), pending.ID); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if err := c.Confirm(context.Background(), pending.ID); !errors.Is(err, ErrConfirmationNotFound) {
		t.Errorf("second Confirm() error = %v, want ErrConfirmationNotFound", err)
	}
	if runs != 1 {
		t.Errorf("action ran %d times, want once", runs)
	}
}

func TestConfirmationsExpire(t *testing.T) {
	c := NewConfirmations(time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	pending := c.Request("delete table", "5", func(ctx context.Context) error {
		t.Error("expired action ran")
		return nil
	})

	now = now.Add(2 * time.Minute)
	if err := c.Confirm(context.Background(), pending.ID); !errors.Is(err, ErrConfirmationExpired) {
		t.Errorf("Confirm() error = %v, want ErrConfirmationExpired", err)
	}
}

func TestConfirmationsDismiss(t *testing.T) {
	c := NewConfirmations(0)
	pending := c.Request("remove shift", "3", func(ctx context.Context) error { return nil })

	if !c.Dismiss(pending.ID) {
		t.Error("Dismiss() = false, want true")
	}
	if c.Dismiss(pending.ID) {
		t.Error("second Dismiss() = true")
	}
	if c.Dismiss(uuid.New()) {
		t.Error("Dismiss() of unknown id = true")
	}
}

func TestConfirmationsActionError(t *testing.T) {
	c := NewConfirmations(time.Minute)
	boom := errors.New("boom")
	pending := c.Request("cancel order", "42", func(ctx context.Context) error { return boom })

	if err := c.Confirm(context.Background(), pending.ID); !errors.Is(err, boom) {
		t.Errorf("Confirm() error = %v, want boom", err)
	}
	if c.Count() != 0 {
		t.Error("failed confirmation kept")
	}
}
