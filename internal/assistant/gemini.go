package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"adbill/internal/core"
)

const notesPrompt = `You are an expert Digital Advertising freelancer. Draft a professional invoice "Notes" section based on this campaign context: %s. Mention payment terms for ad spending and performance monitoring. Keep it under 60 words.`

const insightsPrompt = `As a Digital Marketing financial consultant, analyze these advertising invoices and provide 3 key insights on margin, ad-spend-to-fee ratio, and revenue trends: %s`

// insightSchema constrains the model to a JSON array of insight/action pairs
// so the response parses without prose stripping.
var insightSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"insight": {Type: genai.TypeString},
			"action":  {Type: genai.TypeString},
		},
		Required: []string{"insight", "action"},
	},
}

// Gemini generates content with Google's Gemini models.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) GenerateNotes(ctx context.Context, campaignContext string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.7)

	resp, err := model.GenerateContent(ctx, genai.Text(fmt.Sprintf(notesPrompt, campaignContext)))
	if err != nil {
		return "", fmt.Errorf("generate notes: %w", err)
	}
	return strings.TrimSpace(responseText(resp)), nil
}

func (g *Gemini) GenerateInsights(ctx context.Context, invoices []core.Invoice) ([]Insight, error) {
	payload, err := json.Marshal(summarizeInvoices(invoices))
	if err != nil {
		return nil, fmt.Errorf("marshal invoice summary: %w", err)
	}

	model := g.client.GenerativeModel(g.model)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = insightSchema

	resp, err := model.GenerateContent(ctx, genai.Text(fmt.Sprintf(insightsPrompt, payload)))
	if err != nil {
		return nil, fmt.Errorf("generate insights: %w", err)
	}

	var insights []Insight
	if err := json.Unmarshal([]byte(responseText(resp)), &insights); err != nil {
		return nil, fmt.Errorf("parse insights: %w", err)
	}
	return insights, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

// invoiceSummary is the compact shape sent to the model: enough signal for
// financial analysis without line-item noise or client contact details.
type invoiceSummary struct {
	Number      string  `json:"number"`
	Client      string  `json:"client"`
	Status      string  `json:"status"`
	AdSpend     float64 `json:"adSpend"`
	ServiceFees float64 `json:"serviceFees"`
	Margin      float64 `json:"margin"`
	Total       float64 `json:"total"`
}

func summarizeInvoices(invoices []core.Invoice) []invoiceSummary {
	summaries := make([]invoiceSummary, 0, len(invoices))
	for _, inv := range invoices {
		b := core.ComputeBreakdown(inv.Items, inv.TaxRate, core.FullOptions)
		summaries = append(summaries, invoiceSummary{
			Number:      inv.InvoiceNumber,
			Client:      inv.Client.Name,
			Status:      string(inv.Status),
			AdSpend:     b.AdSpendBase,
			ServiceFees: b.ServiceFees,
			Margin:      b.MarginEarned,
			Total:       b.Total,
		})
	}
	return summaries
}
