// Package sims provides the SIM lifecycle tools: listing, details, status,
// quotas, usage, events, updates, and connectivity resets. It also exposes
// the resource://1nce/sims/{iccid}/status resource and a status prompt.
package sims

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yosida95/uritemplate/v3"

	"github.com/germanamz/oncemcp/pkg/iottoolbox/internal/payload"
	"github.com/germanamz/oncemcp/pkg/management"
	"github.com/germanamz/oncemcp/pkg/tools/toolbox"
)

// StatusResourceTemplate addresses the status of a single SIM.
const StatusResourceTemplate = "resource://1nce/sims/{iccid}/status"

var statusTemplate = uritemplate.MustNew(StatusResourceTemplate)

// Service is the subset of the management client used by the SIM tools.
type Service interface {
	SIMs(ctx context.Context, q management.SIMQuery) (json.RawMessage, error)
	SIM(ctx context.Context, iccid string) (json.RawMessage, error)
	SIMStatus(ctx context.Context, iccid string) (json.RawMessage, error)
	SIMDataQuota(ctx context.Context, iccid string) (json.RawMessage, error)
	SIMSMSQuota(ctx context.Context, iccid string) (json.RawMessage, error)
	UpdateSIM(ctx context.Context, u management.SIMUpdate) error
	SIMUsage(ctx context.Context, iccid, start, end string) (json.RawMessage, error)
	SIMEvents(ctx context.Context, iccid string, q management.EventQuery) (json.RawMessage, error)
	ResetSIM(ctx context.Context, iccid string) error
}

// SIMs provides the SIM tools.
type SIMs struct {
	svc Service
}

// New creates SIMs backed by svc.
func New(svc Service) *SIMs {
	return &SIMs{svc: svc}
}

// Tools returns a ToolBox containing the SIM tools, resource, and prompt.
func (s *SIMs) Tools() *toolbox.ToolBox {
	tb := toolbox.New()
	tb.Register(
		s.listTool(),
		s.readTool("get_sim_details", "Retrieve details of a SIM by ICCID, including activation status, IP address, and quota information.", s.svc.SIM),
		s.readTool("get_sim_status", "Get the current connectivity status of a SIM: online, attached, or offline, with network information.", s.svc.SIMStatus),
		s.readTool("get_sim_data_quota", "Retrieve the data quota of a SIM: total volume, remaining volume, and expiry date.", s.svc.SIMDataQuota),
		s.readTool("get_sim_sms_quota", "Retrieve the SMS quota of a SIM: total SMS, remaining SMS, and expiry date.", s.svc.SIMSMSQuota),
		s.updateTool(),
		s.usageTool(),
		s.eventsTool(),
		s.resetTool(),
	)
	tb.RegisterResources(s.statusResource())
	tb.RegisterPrompts(statusPrompt())

	return tb
}

const iccidSchema = `"iccid":{"type":"string","description":"The ICCID of the SIM"}`

type iccidInput struct {
	ICCID string `json:"iccid"`
}

func requireICCID(tool, iccid string) error {
	if iccid == "" {
		return fmt.Errorf("%s: iccid is required", tool)
	}

	return nil
}

// --- get_all_sims ---

type listInput struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Query    string `json:"query"`
	Sort     string `json:"sort"`
}

func (s *SIMs) listTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "get_all_sims",
		Description: "Retrieve SIMs for the current account with pagination and filtering. Returns status, IP address, and activation information.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"page":{"type":"integer","description":"Page number to retrieve (starts at 1)","default":1},"page_size":{"type":"integer","description":"Number of SIMs per page (max 100)","default":10},"query":{"type":"string","description":"Filter as \"field:value,field:value\", e.g. \"imei:12345,ip_address:10.0.0.1\""},"sort":{"type":"string","description":"Comma-separated sort fields, e.g. \"ip_address,-imei\""}}}`),
		Handler:     s.handleList,
	}
}

func (s *SIMs) handleList(ctx context.Context, input json.RawMessage) (string, error) {
	var in listInput
	if err := payload.Decode("get_all_sims", input, &in); err != nil {
		return "", err
	}

	body, err := s.svc.SIMs(ctx, management.SIMQuery{
		Page:  management.Page{Page: in.Page, PageSize: in.PageSize},
		Query: in.Query,
		Sort:  in.Sort,
	})

	return payload.Result("get_all_sims", body, err)
}

// --- single-SIM reads ---

func (s *SIMs) readTool(name, description string, read func(context.Context, string) (json.RawMessage, error)) toolbox.Tool {
	return toolbox.Tool{
		Name:        name,
		Description: description,
		InputSchema: json.RawMessage(`{"type":"object","properties":{` + iccidSchema + `},"required":["iccid"]}`),
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in iccidInput
			if err := payload.Decode(name, input, &in); err != nil {
				return "", err
			}

			if err := requireICCID(name, in.ICCID); err != nil {
				return "", err
			}

			body, err := read(ctx, in.ICCID)

			return payload.Result(name, body, err)
		},
	}
}

// --- update_sim_status ---

type updateInput struct {
	ICCID    string  `json:"iccid"`
	Status   string  `json:"status"`
	Label    *string `json:"label"`
	IMEILock *bool   `json:"imei_lock"`
}

func (s *SIMs) updateTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "update_sim_status",
		Description: "Update a SIM's status, label, or IMEI lock setting.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{` + iccidSchema + `,"status":{"type":"string","description":"New status: \"Enabled\" or \"Disabled\""},"label":{"type":"string","description":"Optional new label"},"imei_lock":{"type":"boolean","description":"Optional IMEI lock flag"}},"required":["iccid","status"]}`),
		Handler:     s.handleUpdate,
	}
}

func (s *SIMs) handleUpdate(ctx context.Context, input json.RawMessage) (string, error) {
	var in updateInput
	if err := payload.Decode("update_sim_status", input, &in); err != nil {
		return "", err
	}

	err := s.svc.UpdateSIM(ctx, management.SIMUpdate{
		ICCID:    in.ICCID,
		Status:   in.Status,
		Label:    in.Label,
		IMEILock: in.IMEILock,
	})

	return payload.Ack("update_sim_status", err, fmt.Sprintf("SIM %s updated successfully", in.ICCID))
}

// --- get_sim_usage ---

type usageInput struct {
	ICCID     string `json:"iccid"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (s *SIMs) usageTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "get_sim_usage",
		Description: "Retrieve daily usage statistics of a SIM over a date range.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{` + iccidSchema + `,"start_date":{"type":"string","description":"Start date in YYYY-MM-DD format"},"end_date":{"type":"string","description":"End date in YYYY-MM-DD format"}},"required":["iccid","start_date","end_date"]}`),
		Handler:     s.handleUsage,
	}
}

func (s *SIMs) handleUsage(ctx context.Context, input json.RawMessage) (string, error) {
	var in usageInput
	if err := payload.Decode("get_sim_usage", input, &in); err != nil {
		return "", err
	}

	body, err := s.svc.SIMUsage(ctx, in.ICCID, in.StartDate, in.EndDate)

	return payload.Result("get_sim_usage", body, err)
}

// --- get_sim_events ---

type eventsInput struct {
	ICCID    string `json:"iccid"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Sort     string `json:"sort"`
}

func (s *SIMs) eventsTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "get_sim_events",
		Description: "Retrieve events of a SIM such as status changes and connections.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{` + iccidSchema + `,"page":{"type":"integer","description":"Page number to retrieve (starts at 1)","default":1},"page_size":{"type":"integer","description":"Number of events per page (max 1000)","default":10},"sort":{"type":"string","description":"Sort order; \"-timestamp\" shows newest first","default":"-timestamp"}},"required":["iccid"]}`),
		Handler:     s.handleEvents,
	}
}

func (s *SIMs) handleEvents(ctx context.Context, input json.RawMessage) (string, error) {
	var in eventsInput
	if err := payload.Decode("get_sim_events", input, &in); err != nil {
		return "", err
	}

	if err := requireICCID("get_sim_events", in.ICCID); err != nil {
		return "", err
	}

	body, err := s.svc.SIMEvents(ctx, in.ICCID, management.EventQuery{
		Page: management.Page{Page: in.Page, PageSize: in.PageSize},
		Sort: in.Sort,
	})

	return payload.Result("get_sim_events", body, err)
}

// --- reset_sim_connectivity ---

func (s *SIMs) resetTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "reset_sim_connectivity",
		Description: "Trigger a connectivity reset for a SIM.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{` + iccidSchema + `},"required":["iccid"]}`),
		Handler:     s.handleReset,
	}
}

func (s *SIMs) handleReset(ctx context.Context, input json.RawMessage) (string, error) {
	var in iccidInput
	if err := payload.Decode("reset_sim_connectivity", input, &in); err != nil {
		return "", err
	}

	if err := requireICCID("reset_sim_connectivity", in.ICCID); err != nil {
		return "", err
	}

	err := s.svc.ResetSIM(ctx, in.ICCID)

	return payload.Ack("reset_sim_connectivity", err, fmt.Sprintf("Connectivity reset triggered for SIM %s", in.ICCID))
}

// --- resource://1nce/sims/{iccid}/status ---

func (s *SIMs) statusResource() toolbox.Resource {
	return toolbox.Resource{
		URITemplate: StatusResourceTemplate,
		Name:        "sim_status",
		Description: "Current status of a specific SIM.",
		MIMEType:    "application/json",
		Handler: func(ctx context.Context, uri string) (string, error) {
			iccid, err := ICCIDFromURI(uri)
			if err != nil {
				return "", err
			}

			body, err := s.svc.SIMStatus(ctx, iccid)
			if err != nil {
				return "", err
			}

			return string(body), nil
		},
	}
}

// ICCIDFromURI extracts the ICCID from a SIM status resource URI.
func ICCIDFromURI(uri string) (string, error) {
	values := statusTemplate.Match(uri)
	if values == nil {
		return "", fmt.Errorf("sims: %q does not match %s", uri, StatusResourceTemplate)
	}

	iccid := values.Get("iccid").String()
	if iccid == "" {
		return "", errors.New("sims: resource uri has no iccid")
	}

	return iccid, nil
}

// --- check_sim_status_prompt ---

func statusPrompt() toolbox.Prompt {
	return toolbox.Prompt{
		Name:        "check_sim_status_prompt",
		Description: "Generate a prompt to check the status of a SIM.",
		Arguments: []toolbox.PromptArgument{
			{Name: "iccid", Description: "The ICCID of the SIM to check", Required: true},
		},
		Handler: func(_ context.Context, args map[string]string) (string, error) {
			return StatusPromptText(args["iccid"]), nil
		},
	}
}

// StatusPromptText renders the SIM status prompt for iccid.
func StatusPromptText(iccid string) string {
	return fmt.Sprintf("Please check the status of SIM with ICCID %s and let me know if it's active, what its current data usage is, and when its quota expires.", iccid)
}
