package kafkain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"catering_ops/internal/core/domain"
)

// DecodeOrder parses one order event. Unknown fields are rejected.
func DecodeOrder(b []byte) (domain.Order, error) {
	var o domain.Order

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&o); err != nil {
		return domain.Order{}, fmt.Errorf("json decode: %w", err)
	}

	o.Normalize()
	if err := o.Validate(); err != nil {
		return domain.Order{}, fmt.Errorf("domain validate: %w", err)
	}

	return o, nil
}
