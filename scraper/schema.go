package scraper

import (
	"fmt"

	"github.com/andybalholm/cascadia"
)

// FieldKind controls how an extracted value is post-processed.
type FieldKind int

const (
	// FieldText keeps the trimmed text as-is, substituting the default
	// when the locator matches nothing.
	FieldText FieldKind = iota

	// FieldNullable encodes absence as nil instead of a default string.
	FieldNullable

	// FieldTimestamp normalizes the value to RFC 3339 UTC, substituting
	// the current time when absent or unparsable.
	FieldTimestamp
)

// FieldSpec maps one named ticket field to its locator on the rendered
// detail page.
type FieldSpec struct {
	Name     string
	Selector string
	Kind     FieldKind

	// Default is the substitute for absent FieldText fields.
	Default string
}

// TicketFieldSchema is the fixed schema scraped from a ticket detail
// page. The detail view renders each field inside an element carrying a
// data-field attribute named after the ticket document key.
var TicketFieldSchema = []FieldSpec{
	{Name: "simba_id", Selector: `[data-field="simba_id"]`},
	{Name: "title", Selector: `[data-field="title"]`},
	{Name: "description", Selector: `[data-field="description"]`},
	{Name: "priority", Selector: `[data-field="priority"]`, Default: "Medium"},
	{Name: "ticket_category", Selector: `[data-field="ticket_category"]`},
	{Name: "requested_resource", Selector: `[data-field="requested_resource"]`},
	{Name: "access_level", Selector: `[data-field="access_level"]`, Default: "Read"},
	{Name: "current_status", Selector: `[data-field="current_status"]`, Default: "Pending Approval"},
	{Name: "requesterName", Selector: `[data-field="requesterName"]`},
	{Name: "requesterEmail", Selector: `[data-field="requesterEmail"]`},
	{Name: "status", Selector: `[data-field="status"]`, Default: "Open"},
	{Name: "simba_status", Selector: `[data-field="simba_status"]`, Default: "InProgress"},
	{Name: "art_id", Selector: `[data-field="art_id"]`, Kind: FieldNullable},
	{Name: "art_status", Selector: `[data-field="art_status"]`, Kind: FieldNullable},
	{Name: "provisioning_outcome", Selector: `[data-field="provisioning_outcome"]`, Default: "None"},
	{Name: "remediation_needed", Selector: `[data-field="remediation_needed"]`, Default: "None"},
	{Name: "error_code", Selector: `[data-field="error_code"]`, Kind: FieldNullable},
	{Name: "error_message", Selector: `[data-field="error_message"]`, Kind: FieldNullable},
	{Name: "approver_id", Selector: `[data-field="approver_id"]`, Default: "approver-001"},
	{Name: "approver_first_name", Selector: `[data-field="approver_first_name"]`, Default: "Jane"},
	{Name: "approver_last_name", Selector: `[data-field="approver_last_name"]`, Default: "Smith"},
	{Name: "approval_for", Selector: `[data-field="approval_for"]`, Default: "SIMBA"},
	{Name: "workflow_node", Selector: `[data-field="workflow_node"]`, Default: "submission"},
	{Name: "created_timestamp", Selector: `[data-field="created_timestamp"]`, Kind: FieldTimestamp},
	{Name: "last_updated_timestamp", Selector: `[data-field="last_updated_timestamp"]`, Kind: FieldTimestamp},
}

// ValidateSchema compiles every selector in the schema, catching
// malformed locators at startup rather than mid-scrape.
func ValidateSchema(schema []FieldSpec) error {
	for _, f := range schema {
		if f.Name == "" {
			return fmt.Errorf("schema field with empty name (selector %q)", f.Selector)
		}
		if _, err := cascadia.Parse(f.Selector); err != nil {
			return fmt.Errorf("schema field %q: bad selector %q: %w", f.Name, f.Selector, err)
		}
	}
	return nil
}
