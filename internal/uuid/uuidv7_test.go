package uuid

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	id := New()
	if !IsValid(id) {
		t.Fatalf("New() returned invalid UUID %q", id)
	}
	if id[14] != '7' {
		t.Errorf("expected version 7 UUID, got %q", id)
	}
}

func TestNew_TimeOrdered(t *testing.T) {
	prev := New()
	for i := 0; i < 100; i++ {
		next := New()
		if strings.Compare(next, prev) <= 0 {
			t.Fatalf("expected %q to sort after %q", next, prev)
		}
		prev = next
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "canonical", input: "0190a5d2-7c3e-7b1a-9f00-0123456789ab", want: "0190a5d2-7c3e-7b1a-9f00-0123456789ab"},
		{name: "upper_case", input: "0190A5D2-7C3E-7B1A-9F00-0123456789AB", want: "0190a5d2-7c3e-7b1a-9f00-0123456789ab"},
		{name: "garbage", input: "not-a-uuid", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
