package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityUnmarshal(t *testing.T) {
	tests := []struct {
		body string
		want Quantity
	}{
		{body: `{"quantity":3}`, want: 3},
		{body: `{"quantity":"4"}`, want: 4},
		{body: `{"quantity":" 2 "}`, want: 2},
		{body: `{"quantity":0}`, want: 1},
		{body: `{"quantity":-2}`, want: 1},
		{body: `{"quantity":2.9}`, want: 2},
		{body: `{"quantity":0.5}`, want: 1},
		{body: `{"quantity":9999}`, want: 9999},
		{body: `{"quantity":10000}`, want: 9999},
		{body: `{"quantity":"9223372036854775807"}`, want: 9999},
		{body: `{"quantity":"-9223372036854775808"}`, want: 1},
		{body: `{"quantity":99999999999999999999}`, want: 9999},
		{body: `{"quantity":-1e300}`, want: 1},
		{body: `{"quantity":1e400}`, want: 1},
		{body: `{"quantity":"abc"}`, want: 1},
		{body: `{"quantity":null}`, want: 1},
		{body: `{"quantity":true}`, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var req UpdateItem
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.Quantity)
		})
	}
}

func TestAddItemWithoutQuantity(t *testing.T) {
	var req AddItem
	require.NoError(t, json.Unmarshal([]byte(`{"productId":5}`), &req))
	assert.Equal(t, 5, req.ProductID)
	assert.Equal(t, Quantity(0), req.Quantity)
}
