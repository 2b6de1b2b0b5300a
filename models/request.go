package models

// ScrapeURLRequest is the payload for POST /api/scrape-url.
type ScrapeURLRequest struct {
	// URL is the target page to scrape. Required.
	URL string `json:"url" binding:"required"`

	// Provider selects the LLM used for summarization ("openai" or "gemini").
	// Empty falls back to the configured default.
	Provider string `json:"provider,omitempty" binding:"omitempty,oneof=openai gemini"`

	// Headless requests an invisible browser window. Strict targets override
	// this and always run visible.
	Headless bool `json:"headless,omitempty"`

	// BypassChallenge toggles the anti-bot challenge handling.
	// Default: true.
	BypassChallenge *bool `json:"bypassChallenge,omitempty"`

	// OutputFormat controls the scraped-content field of the response.
	// "text" (default) returns visible text; "markdown" converts the
	// rendered HTML.
	OutputFormat string `json:"output_format,omitempty" binding:"omitempty,oneof=text markdown"`

	// ExtractMode controls what is fed to the LLM.
	// "full" (default) uses the whole page text; "readability" runs the
	// main-content extractor over the rendered HTML first.
	ExtractMode string `json:"extract_mode,omitempty" binding:"omitempty,oneof=full readability"`

	// MaxAgeMs enables the response cache: a cached analysis younger than
	// this many milliseconds is returned without launching a browser.
	MaxAgeMs int `json:"max_age_ms,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *ScrapeURLRequest) Defaults() {
	if r.BypassChallenge == nil {
		t := true
		r.BypassChallenge = &t
	}
	if r.OutputFormat == "" {
		r.OutputFormat = "text"
	}
	if r.ExtractMode == "" {
		r.ExtractMode = "full"
	}
}

// AnalyzeTextRequest is the payload for POST /api/analyze-text.
type AnalyzeTextRequest struct {
	Text     string `json:"text" binding:"required"`
	Provider string `json:"provider,omitempty" binding:"omitempty,oneof=openai gemini"`
}

// CreateTicketRequest is the payload for POST /api/tickets.
type CreateTicketRequest struct {
	Title             string `json:"title" binding:"required"`
	Description       string `json:"description" binding:"required"`
	Priority          string `json:"priority,omitempty" binding:"omitempty,oneof=Low Medium High"`
	TicketCategory    string `json:"ticket_category,omitempty"`
	RequestedResource string `json:"requested_resource,omitempty"`
	AccessLevel       string `json:"access_level,omitempty" binding:"omitempty,oneof=Read Write Admin Member"`
	CurrentStatus     string `json:"current_status,omitempty" binding:"omitempty,oneof='Pending Approval' Approved 'Approval Rejected'"`
	RequesterName     string `json:"requesterName" binding:"required"`
	RequesterEmail    string `json:"requesterEmail" binding:"required,email"`
}

// UpdateTicketRequest is the payload for PUT /api/tickets/:id.
// Pointer fields distinguish "absent" from "set to zero value".
type UpdateTicketRequest struct {
	Title             *string `json:"title,omitempty"`
	Description       *string `json:"description,omitempty"`
	Priority          *string `json:"priority,omitempty" binding:"omitempty,oneof=Low Medium High"`
	TicketCategory    *string `json:"ticket_category,omitempty"`
	RequestedResource *string `json:"requested_resource,omitempty"`
	AccessLevel       *string `json:"access_level,omitempty" binding:"omitempty,oneof=Read Write Admin Member"`
	Status            *string `json:"status,omitempty" binding:"omitempty,oneof=Open 'In Progress' Resolved Closed"`
}
