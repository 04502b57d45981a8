package request

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Alturino/storefront/cart/internal/store"
)

type AddItem struct {
	ProductID int      `json:"productId" validate:"required,gt=0"`
	Quantity  Quantity `json:"quantity"`
}

type UpdateItem struct {
	Quantity Quantity `json:"quantity"`
}

// Quantity accepts a JSON number or a numeric string, as a quantity text box
// would send it. Fractions are truncated, values outside
// [store.MinQuantity, store.MaxQuantity] are clamped, and anything that is not
// a number decodes to 1.
type Quantity int

func (q *Quantity) UnmarshalJSON(data []byte) error {
	*q = 1
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	if n, err := strconv.Atoi(raw); err == nil {
		*q = Quantity(store.ClampQuantity(n))
		return nil
	}

	var f float64
	if json.Unmarshal([]byte(raw), &f) != nil {
		return nil
	}
	switch {
	case f >= store.MaxQuantity:
		*q = store.MaxQuantity
	case f < store.MinQuantity:
		*q = store.MinQuantity
	default:
		*q = Quantity(int(f))
	}
	return nil
}
