package models

// APIResponse is the common envelope for every endpoint, mirroring the
// `{success, data}` / `{success, error}` shape of the public API.
type APIResponse struct {
	Success bool         `json:"success"`
	Count   *int         `json:"count,omitempty"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// OK wraps a payload in a success envelope.
func OK(data any) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// OKCount wraps a list payload with its length.
func OKCount(count int, data any) APIResponse {
	return APIResponse{Success: true, Count: &count, Data: data}
}

// Fail wraps an ErrorDetail in a failure envelope.
func Fail(detail *ErrorDetail) APIResponse {
	return APIResponse{Success: false, Error: detail}
}

// ScrapeURLResponse is the data payload for POST /api/scrape-url.
type ScrapeURLResponse struct {
	ScrapedText string `json:"scrapedText"`
	LLMResponse string `json:"llmResponse"`
	Provider    string `json:"provider"`

	// TokenEstimate is a rough token count for the text sent to the LLM.
	TokenEstimate int `json:"token_estimate,omitempty"`

	// CacheStatus indicates whether the response came from cache
	// ("hit", "miss", or empty when caching was not requested).
	CacheStatus string `json:"cache_status,omitempty"`
}

// AnalyzeTextResponse is the data payload for POST /api/analyze-text.
type AnalyzeTextResponse struct {
	LLMResponse string `json:"llmResponse"`
	Provider    string `json:"provider"`
}

// ScrapeTicketResponse is the data payload for POST /api/scrape/:id.
type ScrapeTicketResponse struct {
	ScrapedTicket *ScrapedTicket `json:"scrapedTicket"`
	ScrapedData   map[string]any `json:"scrapedData"`
}

// HealthResponse is the data payload for GET /api/health.
type HealthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Version       string `json:"version"`
}
