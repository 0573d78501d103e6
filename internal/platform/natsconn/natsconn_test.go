package natsconn

import (
	"testing"
	"time"
)

func TestEnvInt(t *testing.T) {
	if v := envInt("NATSCONN_TEST_MISSING", 5); v != 5 {
		t.Fatalf("expected fallback 5, got %d", v)
	}

	t.Setenv("NATSCONN_TEST_INT", "7")
	if v := envInt("NATSCONN_TEST_INT", 5); v != 7 {
		t.Fatalf("expected 7, got %d", v)
	}

	t.Setenv("NATSCONN_TEST_INT", "not-a-number")
	if v := envInt("NATSCONN_TEST_INT", 5); v != 5 {
		t.Fatalf("expected fallback on a malformed value, got %d", v)
	}

	t.Setenv("NATSCONN_TEST_INT", "-3")
	if v := envInt("NATSCONN_TEST_INT", 5); v != 5 {
		t.Fatalf("expected fallback on a negative value, got %d", v)
	}
}

func TestEnvDuration(t *testing.T) {
	if v := envDuration("NATSCONN_TEST_MISSING", 2*time.Second); v != 2*time.Second {
		t.Fatalf("expected fallback 2s, got %s", v)
	}

	t.Setenv("NATSCONN_TEST_DUR", "250ms")
	if v := envDuration("NATSCONN_TEST_DUR", 2*time.Second); v != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %s", v)
	}

	t.Setenv("NATSCONN_TEST_DUR", "soon")
	if v := envDuration("NATSCONN_TEST_DUR", 2*time.Second); v != 2*time.Second {
		t.Fatalf("expected fallback on a malformed value, got %s", v)
	}
}

func TestConnect_FailsFastOnUnreachableServer(t *testing.T) {
	_, err := Connect(Options{
		URL:           "nats://127.0.0.1:19999",
		MaxReconnects: 0,
		ReconnectWait: 10 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected an error for an unreachable NATS server")
	}
}
