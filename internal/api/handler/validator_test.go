package handler

import (
	"testing"
)

type sampleRequest struct {
	Mode    string `json:"mode"      validate:"omitempty,oneof=sync async"`
	Limit   int    `json:"limit"     validate:"min=1,max=10"`
	Session string `json:"session_id" validate:"required"`
}

func TestValidator_Messages(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		req  sampleRequest
		want string
	}{
		{"valid", sampleRequest{Mode: "sync", Limit: 3, Session: "s"}, ""},
		{"oneof", sampleRequest{Mode: "later", Limit: 3, Session: "s"}, "mode must be one of: sync, async"},
		{"min", sampleRequest{Limit: 0, Session: "s"}, "limit must be at least 1"},
		{"max", sampleRequest{Limit: 11, Session: "s"}, "limit must be at most 10"},
		{"required uses json name", sampleRequest{Limit: 1}, "session_id is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.want {
				t.Fatalf("expected %q, got %v", tt.want, err)
			}
		})
	}
}

func TestValidator_JoinsAllViolations(t *testing.T) {
	err := NewValidator().Validate(&sampleRequest{Mode: "x"})
	if err == nil {
		t.Fatalf("expected error")
	}
	want := "mode must be one of: sync, async; limit must be at least 1; session_id is required"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
