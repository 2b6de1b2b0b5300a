package models

import (
	"fmt"
	"strings"
	"time"
)

// Priority values.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Support-queue status values.
const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
	StatusClosed     = "Closed"
)

// Access levels for the requested resource.
const (
	AccessRead   = "Read"
	AccessWrite  = "Write"
	AccessAdmin  = "Admin"
	AccessMember = "Member"
)

// Approval workflow statuses.
const (
	CurrentStatusPending  = "Pending Approval"
	CurrentStatusApproved = "Approved"
	CurrentStatusRejected = "Approval Rejected"
)

// Provisioning pipeline statuses, shared by simba_status and art_status.
const (
	ProvStatusSubmitted  = "Submitted"
	ProvStatusInProgress = "InProgress"
	ProvStatusInReview   = "InReview"
	ProvStatusPending    = "Pending"
	ProvStatusDone       = "Provisioned"
	ProvStatusFailed     = "Provisioned Failed"
	ProvStatusClosed     = "Closed"
)

// Ticket categories.
var TicketCategories = []string{
	"REQ-HR-ONBOARD",
	"REQ-DEV-REPO",
	"REQ-MARKETING-CRM",
	"REQ-FIN-APP",
}

// Approver is the approval sub-record attached to every ticket.
type Approver struct {
	ApproverID  string   `json:"approver_id"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	ApprovalFor []string `json:"approval_for"`
}

// WorkflowState is one node in the ticket's workflow-state sequence.
type WorkflowState struct {
	CurrentNode    string   `json:"current_node"`
	StepsCompleted []string `json:"steps_completed"`
}

// ErrorInfo is the provisioning error sub-record; nil when no error occurred.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Ticket is the full ticket document.
type Ticket struct {
	SimbaID           string          `json:"simba_id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Priority          string          `json:"priority"`
	TicketCategory    string          `json:"ticket_category,omitempty"`
	RequestedResource string          `json:"requested_resource,omitempty"`
	AccessLevel       string          `json:"access_level"`
	CurrentStatus     string          `json:"current_status"`
	RequesterName     string          `json:"requesterName"`
	RequesterEmail    string          `json:"requesterEmail"`
	Status            string          `json:"status"`
	SimbaStatus       string          `json:"simba_status"`
	ArtID             *string         `json:"art_id"`
	ArtStatus         *string         `json:"art_status"`
	ProvisioningOut   string          `json:"provisioning_outcome"`
	RemediationNeeded string          `json:"remediation_needed"`
	ErrorDetails      *ErrorInfo      `json:"error_details"`
	Approver          Approver        `json:"approver"`
	WorkflowState     []WorkflowState `json:"workflow_state"`
	CreatedTimestamp  time.Time       `json:"created_timestamp"`
	UpdatedTimestamp  time.Time       `json:"last_updated_timestamp"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// NewTicket builds a ticket with every system-managed field at its default.
// The requester's name seeds the approver record; a single-word name keeps
// the stock approver identity.
func NewTicket(simbaID, title, description, requesterName, requesterEmail string) *Ticket {
	now := time.Now().UTC()

	first, last := splitName(requesterName)
	if first == "" {
		first = "Jane"
	}
	if last == "" {
		last = "Smith"
	}

	return &Ticket{
		SimbaID:           simbaID,
		Title:             strings.TrimSpace(title),
		Description:       strings.TrimSpace(description),
		Priority:          PriorityMedium,
		AccessLevel:       AccessRead,
		CurrentStatus:     CurrentStatusPending,
		RequesterName:     strings.TrimSpace(requesterName),
		RequesterEmail:    strings.ToLower(strings.TrimSpace(requesterEmail)),
		Status:            StatusOpen,
		SimbaStatus:       ProvStatusInProgress,
		ArtID:             nil,
		ArtStatus:         nil,
		ProvisioningOut:   "None",
		RemediationNeeded: "None",
		ErrorDetails:      nil,
		Approver: Approver{
			ApproverID:  "approver-001",
			FirstName:   first,
			LastName:    last,
			ApprovalFor: []string{"SIMBA"},
		},
		WorkflowState: []WorkflowState{
			{CurrentNode: "submission", StepsCompleted: []string{"validate_request", "log_ticket"}},
			{CurrentNode: "approval", StepsCompleted: []string{}},
		},
		CreatedTimestamp: now,
		UpdatedTimestamp: now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// FormatSimbaID renders a sequence number as a canonical SIMBA id.
func FormatSimbaID(seq int64) string {
	return fmt.Sprintf("SIMBA-%04d", seq)
}

// FormatArtID renders a sequence number as a canonical ART id.
func FormatArtID(seq int64) string {
	return fmt.Sprintf("ART-%04d", seq)
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// ScrapedTicket is the immutable audit record persisted after a ticket-page
// scrape. ScrapedData holds the extracted field map; values are strings
// except for nullable identifier fields, which may be nil.
type ScrapedTicket struct {
	OriginalTicketID string         `json:"originalTicketId"`
	ScrapedData      map[string]any `json:"scrapedData"`
	SourceURL        string         `json:"sourceUrl"`
	ScrapedAt        time.Time      `json:"scrapedAt"`
}
