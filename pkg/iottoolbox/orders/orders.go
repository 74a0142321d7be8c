// Package orders provides tools to list, inspect, and place orders, plus a
// prompt asking for an order's status.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/germanamz/oncemcp/pkg/iottoolbox/internal/payload"
	"github.com/germanamz/oncemcp/pkg/management"
	"github.com/germanamz/oncemcp/pkg/tools/toolbox"
)

// Service is the subset of the management client used by the order tools.
type Service interface {
	Orders(ctx context.Context, q management.OrderQuery) (json.RawMessage, error)
	Order(ctx context.Context, number int) (json.RawMessage, error)
	CreateOrder(ctx context.Context, req management.OrderRequest) (json.RawMessage, error)
}

// Orders provides the order tools.
type Orders struct {
	svc Service
}

// New creates Orders backed by svc.
func New(svc Service) *Orders {
	return &Orders{svc: svc}
}

// Tools returns a ToolBox containing the order tools and prompt.
func (o *Orders) Tools() *toolbox.ToolBox {
	tb := toolbox.New()
	tb.Register(o.listTool(), o.getTool(), o.createTool())
	tb.RegisterPrompts(statusPrompt())

	return tb
}

// --- get_all_orders ---

type listInput struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Sort     string `json:"sort"`
}

func (o *Orders) listTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "get_all_orders",
		Description: "Retrieve orders for the current account with pagination. Returns order status, ordered products, and delivery information.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"page":{"type":"integer","description":"Page number to retrieve (starts at 1)","default":1},"page_size":{"type":"integer","description":"Number of orders per page (max 10)","default":10},"sort":{"type":"string","description":"Comma-separated sort fields, e.g. \"order_status,order_date\"","default":"order_number"}}}`),
		Handler:     o.handleList,
	}
}

func (o *Orders) handleList(ctx context.Context, input json.RawMessage) (string, error) {
	var in listInput
	if err := payload.Decode("get_all_orders", input, &in); err != nil {
		return "", err
	}

	body, err := o.svc.Orders(ctx, management.OrderQuery{
		Page: management.Page{Page: in.Page, PageSize: in.PageSize},
		Sort: in.Sort,
	})

	return payload.Result("get_all_orders", body, err)
}

// --- get_order_by_number ---

type getInput struct {
	OrderNumber int `json:"order_number"`
}

func (o *Orders) getTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "get_order_by_number",
		Description: "Retrieve one order by its order number, including products, quantities, shipping address, and status.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"order_number":{"type":"integer","description":"The order number to retrieve"}},"required":["order_number"]}`),
		Handler:     o.handleGet,
	}
}

func (o *Orders) handleGet(ctx context.Context, input json.RawMessage) (string, error) {
	var in getInput
	if err := payload.Decode("get_order_by_number", input, &in); err != nil {
		return "", err
	}

	if in.OrderNumber == 0 {
		return "", errors.New("get_order_by_number: order_number is required")
	}

	body, err := o.svc.Order(ctx, in.OrderNumber)

	return payload.Result("get_order_by_number", body, err)
}

// --- create_order ---

type createInput struct {
	Products          []map[string]any `json:"products"`
	DeliveryAddress   map[string]any   `json:"delivery_address"`
	CustomerReference string           `json:"customer_reference"`
}

func (o *Orders) createTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "create_order",
		Description: "Create a new order for 1NCE products. Returns the created order including its number and status.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"products":{"type":"array","description":"Products to order, each with productId and quantity, e.g. [{\"productId\":1001,\"quantity\":5}]","items":{"type":"object"}},"delivery_address":{"type":"object","description":"Optional shipping address"},"customer_reference":{"type":"string","description":"Optional reference for this order"}},"required":["products"]}`),
		Handler:     o.handleCreate,
	}
}

func (o *Orders) handleCreate(ctx context.Context, input json.RawMessage) (string, error) {
	var in createInput
	if err := payload.Decode("create_order", input, &in); err != nil {
		return "", err
	}

	if len(in.Products) == 0 {
		return "", errors.New("create_order: products is required")
	}

	body, err := o.svc.CreateOrder(ctx, management.OrderRequest{
		Products:          in.Products,
		DeliveryAddress:   in.DeliveryAddress,
		CustomerReference: in.CustomerReference,
	})

	return payload.Result("create_order", body, err)
}

// --- order_status_prompt ---

func statusPrompt() toolbox.Prompt {
	return toolbox.Prompt{
		Name:        "order_status_prompt",
		Description: "Generate a prompt to check the status of an order.",
		Arguments: []toolbox.PromptArgument{
			{Name: "order_number", Description: "The order number to check", Required: true},
		},
		Handler: func(_ context.Context, args map[string]string) (string, error) {
			n, err := strconv.Atoi(args["order_number"])
			if err != nil {
				return "", fmt.Errorf("order_status_prompt: order_number must be an integer: %w", err)
			}

			return StatusPromptText(n), nil
		},
	}
}

// StatusPromptText renders the order status prompt for number.
func StatusPromptText(number int) string {
	return fmt.Sprintf("Please check the status of order #%d and let me know when it was placed, what products were ordered, and what the current status is.", number)
}
