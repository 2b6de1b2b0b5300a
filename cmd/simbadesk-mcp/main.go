package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// apiEnvelope mirrors the Simbadesk API response envelope.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Count   *int            `json:"count,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// scrapeURLRequest mirrors the Simbadesk scrape-url request model.
type scrapeURLRequest struct {
	URL          string `json:"url"`
	Provider     string `json:"provider,omitempty"`
	Headless     bool   `json:"headless,omitempty"`
	OutputFormat string `json:"output_format,omitempty"`
	ExtractMode  string `json:"extract_mode,omitempty"`
	MaxAgeMs     int    `json:"max_age_ms,omitempty"`
}

// scrapeURLResponse mirrors the Simbadesk scrape-url response model.
type scrapeURLResponse struct {
	ScrapedText   string `json:"scrapedText"`
	LLMResponse   string `json:"llmResponse"`
	Provider      string `json:"provider"`
	TokenEstimate int    `json:"token_estimate,omitempty"`
	CacheStatus   string `json:"cache_status,omitempty"`
}

// analyzeTextResponse mirrors the Simbadesk analyze-text response model.
type analyzeTextResponse struct {
	LLMResponse string `json:"llmResponse"`
	Provider    string `json:"provider"`
}

// scrapeTicketResponse mirrors the Simbadesk scrape-ticket response model.
type scrapeTicketResponse struct {
	ScrapedTicket *struct {
		OriginalTicketID string    `json:"originalTicketId"`
		SourceURL        string    `json:"sourceUrl"`
		ScrapedAt        time.Time `json:"scrapedAt"`
	} `json:"scrapedTicket"`
	ScrapedData map[string]any `json:"scrapedData"`
}

func main() {
	apiURL := os.Getenv("SIMBADESK_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:5000"
	}
	apiKey := os.Getenv("SIMBADESK_API_KEY")

	s := server.NewMCPServer(
		"simbadesk",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	scrapeURLTool := mcp.NewTool("scrape_url",
		mcp.WithDescription("Scrape a web page with a headless browser (resolving Cloudflare-style challenges when present) and return its text plus an LLM summary."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the web page to scrape"),
		),
		mcp.WithString("provider",
			mcp.Description("LLM provider for summarization: 'openai' (default) or 'gemini'"),
			mcp.Enum("openai", "gemini"),
		),
		mcp.WithString("output_format",
			mcp.Description("Format of the scraped text: 'text' (default) or 'markdown'"),
			mcp.Enum("text", "markdown"),
		),
		mcp.WithString("extract_mode",
			mcp.Description("Content extraction mode: 'full' (default, whole visible page) or 'readability' (main article only)"),
			mcp.Enum("full", "readability"),
		),
		mcp.WithNumber("max_age_ms",
			mcp.Description("Accept a cached result no older than this many milliseconds (default: 0, always scrape fresh)"),
		),
	)
	s.AddTool(scrapeURLTool, handleScrapeURL(apiURL, apiKey))

	analyzeTextTool := mcp.NewTool("analyze_text",
		mcp.WithDescription("Summarize a block of text with an LLM without scraping anything."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to summarize"),
		),
		mcp.WithString("provider",
			mcp.Description("LLM provider: 'openai' (default) or 'gemini'"),
			mcp.Enum("openai", "gemini"),
		),
	)
	s.AddTool(analyzeTextTool, handleAnalyzeText(apiURL, apiKey))

	scrapeTicketTool := mcp.NewTool("scrape_ticket",
		mcp.WithDescription("Scrape the rendered detail page of an existing ticket and return the extracted field data."),
		mcp.WithString("ticket_id",
			mcp.Required(),
			mcp.Description("The ticket ID to scrape (e.g. 'SIMBA-0001')"),
		),
	)
	s.AddTool(scrapeTicketTool, handleScrapeTicket(apiURL, apiKey))

	getTicketTool := mcp.NewTool("get_ticket",
		mcp.WithDescription("Fetch a single ticket by ID."),
		mcp.WithString("ticket_id",
			mcp.Required(),
			mcp.Description("The ticket ID to fetch (e.g. 'SIMBA-0001')"),
		),
	)
	s.AddTool(getTicketTool, handleGetTicket(apiURL, apiKey))

	listTicketsTool := mcp.NewTool("list_tickets",
		mcp.WithDescription("List all tickets, newest first."),
	)
	s.AddTool(listTicketsTool, handleListTickets(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the Simbadesk API and returns the parsed envelope.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload any) (*apiEnvelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	return doEnvelope(client, req)
}

// apiGet sends a GET request to the Simbadesk API and returns the parsed envelope.
func apiGet(ctx context.Context, client *http.Client, apiURL, apiKey, path string) (*apiEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	return doEnvelope(client, req)
}

func doEnvelope(client *http.Client, req *http.Request) (*apiEnvelope, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &env, nil
}

// envelopeError formats the error carried in a failed envelope.
func envelopeError(env *apiEnvelope, fallback string) string {
	if env.Error != nil {
		return fmt.Sprintf("[%s] %s", env.Error.Code, env.Error.Message)
	}
	return fallback
}

func handleScrapeURL(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 180 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		reqBody := scrapeURLRequest{
			URL:          url,
			Provider:     request.GetString("provider", ""),
			Headless:     true,
			OutputFormat: request.GetString("output_format", ""),
			ExtractMode:  request.GetString("extract_mode", ""),
			MaxAgeMs:     request.GetInt("max_age_ms", 0),
		}

		env, err := apiPost(ctx, client, apiURL, apiKey, "/api/scrape-url", reqBody)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !env.Success {
			return mcp.NewToolResultError(envelopeError(env, "scrape failed")), nil
		}

		var scrapeResp scrapeURLResponse
		if err := json.Unmarshal(env.Data, &scrapeResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse scrape response: %v", err)), nil
		}

		result := fmt.Sprintf("Summary (%s):\n%s\n\n---\nScraped content:\n%s",
			scrapeResp.Provider, scrapeResp.LLMResponse, scrapeResp.ScrapedText)
		if scrapeResp.TokenEstimate > 0 {
			result += fmt.Sprintf("\n\n---\nEstimated tokens: %d", scrapeResp.TokenEstimate)
		}
		if scrapeResp.CacheStatus != "" {
			result += fmt.Sprintf("\nCache: %s", scrapeResp.CacheStatus)
		}

		return mcp.NewToolResultText(result), nil
	}
}

func handleAnalyzeText(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 60 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}

		payload := map[string]any{"text": text}
		if provider := request.GetString("provider", ""); provider != "" {
			payload["provider"] = provider
		}

		env, err := apiPost(ctx, client, apiURL, apiKey, "/api/analyze-text", payload)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !env.Success {
			return mcp.NewToolResultError(envelopeError(env, "analysis failed")), nil
		}

		var analyzeResp analyzeTextResponse
		if err := json.Unmarshal(env.Data, &analyzeResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse analyze response: %v", err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Summary (%s):\n%s", analyzeResp.Provider, analyzeResp.LLMResponse)), nil
	}
}

func handleScrapeTicket(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 180 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticketID, err := request.RequireString("ticket_id")
		if err != nil {
			return mcp.NewToolResultError("ticket_id is required"), nil
		}

		env, err := apiPost(ctx, client, apiURL, apiKey, "/api/scrape/"+ticketID, map[string]any{})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !env.Success {
			return mcp.NewToolResultError(envelopeError(env, "ticket scrape failed")), nil
		}

		var ticketResp scrapeTicketResponse
		if err := json.Unmarshal(env.Data, &ticketResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse scrape response: %v", err)), nil
		}

		var prettyData bytes.Buffer
		raw, _ := json.Marshal(ticketResp.ScrapedData)
		if err := json.Indent(&prettyData, raw, "", "  "); err != nil {
			prettyData.Write(raw)
		}

		result := "Scraped fields:\n" + prettyData.String()
		if ticketResp.ScrapedTicket != nil {
			result = fmt.Sprintf("Ticket: %s\nSource: %s\nScraped at: %s\n\n",
				ticketResp.ScrapedTicket.OriginalTicketID,
				ticketResp.ScrapedTicket.SourceURL,
				ticketResp.ScrapedTicket.ScrapedAt.Format(time.RFC3339)) + result
		}

		return mcp.NewToolResultText(result), nil
	}
}

func handleGetTicket(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticketID, err := request.RequireString("ticket_id")
		if err != nil {
			return mcp.NewToolResultError("ticket_id is required"), nil
		}

		env, err := apiGet(ctx, client, apiURL, apiKey, "/api/tickets/"+ticketID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !env.Success {
			return mcp.NewToolResultError(envelopeError(env, "ticket lookup failed")), nil
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, env.Data, "", "  "); err != nil {
			pretty.Write(env.Data)
		}

		return mcp.NewToolResultText(pretty.String()), nil
	}
}

func handleListTickets(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		env, err := apiGet(ctx, client, apiURL, apiKey, "/api/tickets")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !env.Success {
			return mcp.NewToolResultError(envelopeError(env, "ticket listing failed")), nil
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, env.Data, "", "  "); err != nil {
			pretty.Write(env.Data)
		}

		result := pretty.String()
		if env.Count != nil {
			result = fmt.Sprintf("%d tickets:\n\n", *env.Count) + result
		}

		return mcp.NewToolResultText(result), nil
	}
}
