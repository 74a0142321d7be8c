// Package defaults builds the complete IoT toolbox from a management client.
package defaults

import (
	"github.com/germanamz/oncemcp/pkg/iottoolbox/orders"
	"github.com/germanamz/oncemcp/pkg/iottoolbox/products"
	"github.com/germanamz/oncemcp/pkg/iottoolbox/sims"
	"github.com/germanamz/oncemcp/pkg/management"
	"github.com/germanamz/oncemcp/pkg/tools/toolbox"
)

// New builds the full catalog of product, order, and SIM tools backed by c.
func New(c *management.Client) *toolbox.ToolBox {
	return Merge(
		products.New(c).Tools(),
		orders.New(c).Tools(),
		sims.New(c).Tools(),
	)
}

// Merge combines toolboxes in order so later entries overwrite earlier ones
// when names collide.
func Merge(toolboxes ...*toolbox.ToolBox) *toolbox.ToolBox {
	tb := toolbox.New()
	for _, other := range toolboxes {
		tb.Merge(other)
	}

	return tb
}
