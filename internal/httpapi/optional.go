package httpapi

import "encoding/json"

// Optional distinguishes an absent JSON field from an explicit null, for
// partial updates where null means "clear".
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}
