package domain

import (
	"bytes"
	"encoding/json"
)

var jsonNull = []byte("null")

// NullableString is a JSON string field that distinguishes "key absent" from
// "key explicitly set to null". Set is false when the key was not present in
// the payload at all; Set true with a nil Value means an explicit null.
// The distinction matters for deal updates: only an explicit stage assignment
// may trigger a stage-history entry.
type NullableString struct {
	Set   bool
	Value *string
}

// NullableStringOf returns a set NullableString holding v.
func NullableStringOf(v *string) NullableString {
	return NullableString{Set: true, Value: v}
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, jsonNull) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

func (n NullableString) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return jsonNull, nil
	}
	return json.Marshal(*n.Value)
}
