package domain

import "testing"

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		quantity  int
		costPrice float64
		want      float64
	}{
		{3, 19.99, 59.97},
		{1, 0, 0},
		{10, 2.5, 25},
		{7, 0.333, 2.33},
	}
	for _, tt := range tests {
		if got := ComputeTotal(tt.quantity, tt.costPrice); got != tt.want {
			t.Errorf("ComputeTotal(%d, %v) = %v, want %v", tt.quantity, tt.costPrice, got, tt.want)
		}
	}
}

func TestValidCurrency(t *testing.T) {
	for _, c := range []string{CurrencyUSD, CurrencyAED, CurrencyGBP} {
		if !ValidCurrency(c) {
			t.Errorf("expected %q to be valid", c)
		}
	}
	if ValidCurrency("EUR") {
		t.Error("expected unsupported currency to be invalid")
	}
	if ValidCurrency("usd") {
		t.Error("currency codes are case sensitive")
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusCompleted, StatusCancelled} {
		if !ValidStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if ValidStatus("shipped") {
		t.Error("expected unknown status to be invalid")
	}
}

func TestIsCompleted(t *testing.T) {
	p := &Purchase{Status: StatusPending}
	if p.IsCompleted() {
		t.Error("pending purchase should not be completed")
	}
	p.Status = StatusCompleted
	if !p.IsCompleted() {
		t.Error("completed purchase should report completed")
	}
}
