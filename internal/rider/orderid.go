package rider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// OrderID keeps an order identifier exactly as the service sent it, string
// or number, so it can be echoed back unchanged.
type OrderID struct {
	raw json.RawMessage
}

// NewOrderID wraps a string id.
func NewOrderID(s string) OrderID {
	b, _ := json.Marshal(s)
	return OrderID{raw: b}
}

func (o *OrderID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("empty order id")
	}
	switch b[0] {
	case '"':
	case 'n':
		o.raw = nil
		return nil
	default:
		if _, err := strconv.ParseFloat(string(b), 64); err != nil {
			return fmt.Errorf("order id %s: not a string or number", b)
		}
	}
	o.raw = append(o.raw[:0], b...)
	return nil
}

func (o OrderID) MarshalJSON() ([]byte, error) {
	if len(o.raw) == 0 {
		return []byte("null"), nil
	}
	return o.raw, nil
}

// IsZero reports whether the id was null or absent.
func (o OrderID) IsZero() bool { return len(o.raw) == 0 }

func (o OrderID) String() string {
	if len(o.raw) > 0 && o.raw[0] == '"' {
		var s string
		if err := json.Unmarshal(o.raw, &s); err == nil {
			return s
		}
	}
	return string(o.raw)
}
