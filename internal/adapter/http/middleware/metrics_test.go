package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/products", "/api/v1/products"},
		{"/api/v1/products/01HZX4T8", "/api/v1/products/:id"},
		{"/api/v1/orders/01HZX4T8/pay", "/api/v1/orders/:id/pay"},
		{"/api/v1/stock/01HZX4T8/movements", "/api/v1/stock/:id/movements"},
		{"/api/v1/stock/movements", "/api/v1/stock/movements"},
		{"/health", "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizePath(tt.path); got != tt.want {
				t.Fatalf("normalizePath(%s) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}
