package handler

import "encoding/json"

// optional distinguishes a JSON field that was omitted from one explicitly
// set to null: omission leaves the stored value unchanged, an explicit null
// clears it.
type optional[T any] struct {
	set   bool
	value *T
}

func (o *optional[T]) UnmarshalJSON(b []byte) error {
	o.set = true
	if string(b) == "null" {
		o.value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.value = &v
	return nil
}
