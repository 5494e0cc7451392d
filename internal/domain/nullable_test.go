package domain

import (
	"encoding/json"
	"testing"
)

func TestNullableString_UnmarshalJSON(t *testing.T) {
	type payload struct {
		StageID NullableString `json:"stageId"`
	}

	tests := []struct {
		name      string
		body      string
		wantSet   bool
		wantValue *string
	}{
		{name: "key absent", body: `{}`, wantSet: false, wantValue: nil},
		{name: "explicit null", body: `{"stageId": null}`, wantSet: true, wantValue: nil},
		{name: "string value", body: `{"stageId": "stage-1"}`, wantSet: true, wantValue: strPtr("stage-1")},
		{name: "empty string", body: `{"stageId": ""}`, wantSet: true, wantValue: strPtr("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}
			if p.StageID.Set != tt.wantSet {
				t.Errorf("Set = %v, want %v", p.StageID.Set, tt.wantSet)
			}
			if (p.StageID.Value == nil) != (tt.wantValue == nil) {
				t.Fatalf("Value = %v, want %v", p.StageID.Value, tt.wantValue)
			}
			if tt.wantValue != nil && *p.StageID.Value != *tt.wantValue {
				t.Errorf("Value = %q, want %q", *p.StageID.Value, *tt.wantValue)
			}
		})
	}
}

func TestNullableString_RejectsNonString(t *testing.T) {
	var n NullableString
	if err := json.Unmarshal([]byte(`42`), &n); err == nil {
		t.Error("Should reject non-string JSON")
	}
}

func strPtr(s string) *string { return &s }
