package signature_test

import (
	"net/url"
	"testing"

	"github.com/Kha-Noob/liteflow-sub002/pkg/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	testCases := []struct {
		name     string
		params   url.Values
		exclude  []string
		expected string
	}{
		{
			name:     "sorts names lexicographically",
			params:   url.Values{"vnp_TxnRef": {"abc"}, "vnp_Amount": {"15000000"}, "vnp_Command": {"pay"}},
			expected: "vnp_Amount=15000000&vnp_Command=pay&vnp_TxnRef=abc",
		},
		{
			name:     "space is encoded as plus",
			params:   url.Values{"vnp_OrderInfo": {"Thanh toan ban 1"}},
			expected: "vnp_OrderInfo=Thanh+toan+ban+1",
		},
		{
			name:     "reserved characters are percent encoded",
			params:   url.Values{"vnp_ReturnUrl": {"https://shop.test/payment/return?x=1"}},
			expected: "vnp_ReturnUrl=https%3A%2F%2Fshop.test%2Fpayment%2Freturn%3Fx%3D1",
		},
		{
			name:     "excluded and empty parameters are skipped",
			params:   url.Values{"a": {"1"}, "empty": {""}, "vnp_SecureHash": {"ff"}},
			exclude:  []string{"vnp_SecureHash"},
			expected: "a=1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, signature.Canonicalize(tc.params, tc.exclude...))
		})
	}
}

func TestCanonicalizeRaw(t *testing.T) {
	t.Run("keeps raw value bytes and sorts by name", func(t *testing.T) {
		raw := "vnp_TxnRef=abc&vnp_OrderInfo=Thanh%20toan&vnp_Amount=100&vnp_SecureHash=ff"

		canonical, err := signature.CanonicalizeRaw(raw, "vnp_SecureHash")

		require.NoError(t, err)
		assert.Equal(t, "vnp_Amount=100&vnp_OrderInfo=Thanh%20toan&vnp_TxnRef=abc", canonical)
	})

	t.Run("raw form differs from re-encoded decoded form", func(t *testing.T) {
		raw := "vnp_OrderInfo=Thanh%20toan"
		decoded, err := url.ParseQuery(raw)
		require.NoError(t, err)

		canonical, err := signature.CanonicalizeRaw(raw)
		require.NoError(t, err)

		assert.NotEqual(t, signature.Canonicalize(decoded), canonical)
	})

	t.Run("matches outbound form when gateway encodes the same way", func(t *testing.T) {
		params := url.Values{"b": {"hello world"}, "a": {"1/2"}}

		canonical, err := signature.CanonicalizeRaw(params.Encode())

		require.NoError(t, err)
		assert.Equal(t, signature.Canonicalize(params), canonical)
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		_, err := signature.CanonicalizeRaw("a=1&a=2")

		assert.ErrorIs(t, err, signature.ErrDuplicateParam)
	})

	t.Run("rejects malformed names", func(t *testing.T) {
		_, err := signature.CanonicalizeRaw("a%zz=1")

		assert.ErrorIs(t, err, signature.ErrMalformedQuery)
	})

	t.Run("empty query", func(t *testing.T) {
		canonical, err := signature.CanonicalizeRaw("")

		require.NoError(t, err)
		assert.Empty(t, canonical)
	})
}
