package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrderComputeTotal(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{Quantity: 2, UnitPrice: decimal.NewFromFloat(19.99)},
			{Quantity: 1, UnitPrice: decimal.NewFromFloat(150.00)},
		},
	}

	want := decimal.NewFromFloat(189.98)
	if got := order.ComputeTotal(); !got.Equal(want) {
		t.Errorf("expected total %s, got %s", want, got)
	}
}

func TestOrderComputeTotalEmpty(t *testing.T) {
	order := &Order{}

	if got := order.ComputeTotal(); !got.Equal(decimal.Zero) {
		t.Errorf("expected zero total, got %s", got)
	}
}

func TestValidPaymentMethod(t *testing.T) {
	tests := []struct {
		method PaymentMethod
		valid  bool
	}{
		{PaymentMethodCOD, true},
		{PaymentMethodCard, true},
		{PaymentMethod("paypal"), false},
		{PaymentMethod(""), false},
	}

	for _, tt := range tests {
		if got := ValidPaymentMethod(tt.method); got != tt.valid {
			t.Errorf("ValidPaymentMethod(%q) = %v, want %v", tt.method, got, tt.valid)
		}
	}
}
