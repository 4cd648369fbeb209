// gemini_generator.go derives monthly spending insights from a Gemini model.
// The model is asked for a STRICT JSON array of exactly three strings; any
// deviation is returned as an error so callers can fall back.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"github.com/SscSPs/welth_backend/internal/core/domain"
)

const expectedInsightCount = 3

// GeminiGenerator implements the insight generator port against the GenAI
// API. The client reads GEMINI_API_KEY from the environment.
type GeminiGenerator struct {
	client    *genai.Client
	modelName string
}

func NewGeminiGenerator(ctx context.Context, modelName string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiGenerator{client: client, modelName: modelName}, nil
}

// GenerateInsights asks the model for three concise, actionable observations
// about the month's numbers.
func (g *GeminiGenerator) GenerateInsights(ctx context.Context, stats domain.MonthlyStats, monthLabel string) ([]string, error) {
	prompt := buildInsightPrompt(stats, monthLabel)

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	insights, err := parseInsightJSON(rawText)
	if err != nil {
		return nil, err
	}
	return insights, nil
}

func buildInsightPrompt(stats domain.MonthlyStats, monthLabel string) string {
	var b strings.Builder
	b.WriteString("You are a personal finance assistant.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Analyze this monthly financial summary and produce 3 concise, actionable insights.\n")
	b.WriteString("- Focus on spending patterns and practical advice.\n")
	b.WriteString("- Keep each insight friendly and under 30 words.\n\n")
	fmt.Fprintf(&b, "Month: %s\n", monthLabel)
	fmt.Fprintf(&b, "Total income: %s\n", stats.TotalIncome.StringFixed(2))
	fmt.Fprintf(&b, "Total expenses: %s\n", stats.TotalExpenses.StringFixed(2))
	fmt.Fprintf(&b, "Net: %s\n", stats.TotalIncome.Sub(stats.TotalExpenses).StringFixed(2))
	b.WriteString("Expenses by category:\n")
	for _, cat := range sortedCategories(stats.ByCategory) {
		fmt.Fprintf(&b, "- %s: %s\n", cat, stats.ByCategory[cat].StringFixed(2))
	}
	b.WriteString("\nReturn ONLY valid raw JSON.\n")
	b.WriteString("Do NOT wrap the response in code fences.\n")
	b.WriteString("Do NOT use ```json or any Markdown.\n")
	b.WriteString("Output must be a JSON array of exactly 3 strings, beginning with \"[\" and ending with \"]\".\n")
	return b.String()
}

func sortedCategories(byCategory map[string]decimal.Decimal) []string {
	cats := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

// parseInsightJSON strips Markdown fences the model may add despite
// instructions and decodes the remaining array.
func parseInsightJSON(raw string) ([]string, error) {
	clean := cleanModelJSON(raw)

	var insights []string
	if err := json.Unmarshal([]byte(clean), &insights); err != nil {
		return nil, fmt.Errorf("unmarshal insights JSON: %w\nraw response: %s", err, raw)
	}
	if len(insights) != expectedInsightCount {
		return nil, fmt.Errorf("expected %d insights, got %d", expectedInsightCount, len(insights))
	}
	return insights, nil
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
