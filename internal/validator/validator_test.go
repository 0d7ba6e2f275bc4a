package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
)

func init() {
	Register()
}

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Abcdef12", true},
		{"Passw0rdWithMore", true},
		{"abcdef12", false}, // no upper
		{"ABCDEF12", false}, // no lower
		{"Abcdefgh", false}, // no digit
		{"Abc12", false},    // too short
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			if got := IsStrongPassword(tt.password); got != tt.want {
				t.Errorf("IsStrongPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

type moneyRequest struct {
	Amount *decimal.Decimal `binding:"required,gte=-1000,lte=1000"`
}

type balanceRequest struct {
	Balance *decimal.Decimal `binding:"required,gte=0"`
}

type passwordRequest struct {
	Password string `binding:"required,strong_password"`
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestDecimalValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     interface{}
		wantErr bool
	}{
		{name: "in_range", req: &moneyRequest{Amount: decimalPtr("-20.00")}},
		{name: "zero_is_present", req: &balanceRequest{Balance: decimalPtr("0")}},
		{name: "upper_bound", req: &moneyRequest{Amount: decimalPtr("1000")}},
		{name: "above_range", req: &moneyRequest{Amount: decimalPtr("1000.01")}, wantErr: true},
		{name: "below_range", req: &moneyRequest{Amount: decimalPtr("-1000.01")}, wantErr: true},
		{name: "negative_balance", req: &balanceRequest{Balance: decimalPtr("-0.01")}, wantErr: true},
		{name: "missing", req: &balanceRequest{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(tt.req)
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestStrongPasswordTag(t *testing.T) {
	if err := binding.Validator.ValidateStruct(&passwordRequest{Password: "Abcdef12"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := binding.Validator.ValidateStruct(&passwordRequest{Password: "abcdefgh"}); err == nil {
		t.Fatal("expected weak password to fail validation")
	}
}
