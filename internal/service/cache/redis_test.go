//go:build !integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEscapePattern(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{in: "products:", expected: "products:"},
		{in: "packing-lists:list?page=1", expected: `packing-lists:list\?page=1`},
		{in: "a*b[c]", expected: `a\*b\[c\]`},
		{in: `back\slash`, expected: `back\\slash`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, escapePattern(tt.in))
		})
	}
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not-a-url://", time.Minute, "plc:")
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	var c Cache = Noop{}
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"))
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	c.InvalidatePrefix(ctx, "k")
	c.Clear(ctx)
	c.Stop()
}
