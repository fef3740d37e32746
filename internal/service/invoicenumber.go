package service

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// InvoiceNumbers issues invoice numbers from a snowflake node. Snowflake ids
// are unique across process restarts and sort by issue time, which keeps
// numbers stable across the master/tenant database boundary without a
// database sequence.
type InvoiceNumbers struct {
	node *snowflake.Node
}

// NewInvoiceNumbers creates an InvoiceNumbers generator.
func NewInvoiceNumbers(node *snowflake.Node) *InvoiceNumbers {
	return &InvoiceNumbers{node: node}
}

// Next returns the next invoice number.
func (g *InvoiceNumbers) Next() string {
	return fmt.Sprintf("INV-%s", g.node.Generate())
}
