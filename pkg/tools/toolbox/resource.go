package toolbox

import "context"

// ResourceHandler reads the resource addressed by uri and returns its text.
type ResourceHandler func(ctx context.Context, uri string) (string, error)

// Resource is a read-only view addressed by URI. Exactly one of URI (a fixed
// address) or URITemplate (an RFC 6570 template such as
// "resource://1nce/sims/{iccid}/status") is set.
type Resource struct {
	URI         string
	URITemplate string
	Name        string
	Description string
	MIMEType    string
	Handler     ResourceHandler
}

// Key returns the address the resource is registered under.
func (r Resource) Key() string {
	if r.URITemplate != "" {
		return r.URITemplate
	}

	return r.URI
}
