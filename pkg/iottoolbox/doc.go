// Package iottoolbox provides the IoT connectivity tools served over MCP. Each
// sub-package binds one area of the management API to tools, resources, and
// prompts:
//
//   - [github.com/germanamz/oncemcp/pkg/iottoolbox/products]: product catalog tool and resource://1nce/products
//   - [github.com/germanamz/oncemcp/pkg/iottoolbox/orders]: order listing, lookup, creation, and the order status prompt
//   - [github.com/germanamz/oncemcp/pkg/iottoolbox/sims]: SIM listing, details, quotas, usage, events, updates, resets, resource://1nce/sims/{iccid}/status, and the SIM status prompt
//   - [github.com/germanamz/oncemcp/pkg/iottoolbox/defaults]: builder that merges all of the above
package iottoolbox
