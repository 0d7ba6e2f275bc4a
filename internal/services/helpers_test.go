package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/logger"
)

func init() {
	logger.Init("test")
}

var ctx = context.Background()

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func assertMoney(t *testing.T, what string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %s, want %s", what, got, want)
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

const missingID = "0190a5d2-7c3e-7b1a-9f00-00000000dead"
