package service_test

import (
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zphere-app/zphere/internal/service"
)

func TestInvoiceNumbersAreUnique(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	gen := service.NewInvoiceNumbers(node)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := gen.Next()
		assert.True(t, strings.HasPrefix(n, "INV-"))
		assert.False(t, seen[n], "duplicate number %s", n)
		seen[n] = true
	}
}
