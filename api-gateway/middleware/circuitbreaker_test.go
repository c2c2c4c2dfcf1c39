package middleware

import (
	"testing"
	"time"
)

func TestCircuitBreakerOpensAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker("catalog", 3, time.Minute)

	for i := 0; i < 2; i++ {
		cb.RecordFailure()
	}
	if got := cb.State(); got != StateClosed {
		t.Errorf("state = %q before the threshold, want closed", got)
	}

	cb.RecordFailure()
	if got := cb.State(); got != StateOpen {
		t.Errorf("state = %q at the threshold, want open", got)
	}
	if cb.Allow() {
		t.Error("open circuit must reject requests before the cooldown")
	}
}

func TestCircuitBreakerRecovery(t *testing.T) {
	cb := NewCircuitBreaker("catalog", 1, 5*time.Millisecond)

	cb.RecordFailure()
	if cb.Allow() {
		t.Fatal("circuit should be open")
	}

	time.Sleep(10 * time.Millisecond)
	if !cb.Allow() {
		t.Fatal("elapsed cooldown should admit a half-open request")
	}
	if got := cb.State(); got != StateHalfOpen {
		t.Fatalf("state = %q, want half-open", got)
	}

	// A failure while half-open reopens immediately
	cb.RecordFailure()
	if got := cb.State(); got != StateOpen {
		t.Errorf("state = %q after half-open failure, want open", got)
	}

	time.Sleep(10 * time.Millisecond)
	if !cb.Allow() {
		t.Fatal("elapsed cooldown should admit a half-open request")
	}
	for i := 0; i < halfOpenSuccesses; i++ {
		cb.RecordSuccess()
	}
	if got := cb.State(); got != StateClosed {
		t.Errorf("state = %q after recovery, want closed", got)
	}
}

func TestCircuitBreakerSuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker("catalog", 2, time.Minute)

	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()

	if got := cb.State(); got != StateClosed {
		t.Errorf("state = %q, want closed when failures are not consecutive", got)
	}
}

func TestIsProxiedPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/api/products", true},
		{"/api/purchases/7", true},
		{"/auth/login", true},
		{"/users", true},
		{"/admin/permissions", true},
		{"/swagger/index.html", true},
		{"/health", false},
		{"/metrics", false},
	}
	for _, tt := range tests {
		if got := isProxiedPath(tt.path); got != tt.want {
			t.Errorf("isProxiedPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
