// Package products exposes the product catalog as a tool and as the
// resource://1nce/products resource.
package products

import (
	"context"
	"encoding/json"

	"github.com/germanamz/oncemcp/pkg/iottoolbox/internal/payload"
	"github.com/germanamz/oncemcp/pkg/tools/toolbox"
)

// ResourceURI addresses the product catalog resource.
const ResourceURI = "resource://1nce/products"

// Catalog lists products from the management API.
type Catalog interface {
	Products(ctx context.Context) (json.RawMessage, error)
}

// Products provides the product tools.
type Products struct {
	catalog Catalog
}

// New creates Products backed by catalog.
func New(catalog Catalog) *Products {
	return &Products{catalog: catalog}
}

// Tools returns a ToolBox containing the product tool and resource.
func (p *Products) Tools() *toolbox.ToolBox {
	tb := toolbox.New()
	tb.Register(p.listTool())
	tb.RegisterResources(p.catalogResource())

	return tb
}

// --- get_all_products ---

func (p *Products) listTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "get_all_products",
		Description: "Retrieve all available 1NCE products with pricing, package sizes, and specifications.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
		Handler:     p.handleList,
	}
}

func (p *Products) handleList(ctx context.Context, _ json.RawMessage) (string, error) {
	body, err := p.catalog.Products(ctx)
	return payload.Result("get_all_products", body, err)
}

func (p *Products) catalogResource() toolbox.Resource {
	return toolbox.Resource{
		URI:         ResourceURI,
		Name:        "products",
		Description: "All available 1NCE products.",
		MIMEType:    "application/json",
		Handler: func(ctx context.Context, _ string) (string, error) {
			body, err := p.catalog.Products(ctx)
			if err != nil {
				return "", err
			}

			return string(body), nil
		},
	}
}
