package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/ledgerline/ledgerline/internal/model"
)

// DefaultGeminiModel is the model used when none is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiClassifier suggests categories with a Gemini model. It is an
// optional alternative to the keyword classifier, selected by
// classifier.provider in the config.
type GeminiClassifier struct {
	client     *genai.Client
	modelName  string
	categories []string
}

// NewGeminiClassifier creates a Gemini-backed classifier constrained to the
// given category list. Credentials come from the environment, as the genai
// client expects.
func NewGeminiClassifier(ctx context.Context, modelName string, categories []string) (*GeminiClassifier, error) {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClassifier{
		client:     client,
		modelName:  modelName,
		categories: categories,
	}, nil
}

type geminiSuggestion struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Classify asks the model for a single category suggestion as strict JSON.
func (c *GeminiClassifier) Classify(ctx context.Context, candidate model.TransactionCandidate) (model.ClassificationResult, error) {
	prompt := c.buildPrompt(candidate)

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.modelName, contents, nil)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return model.ClassificationResult{}, fmt.Errorf("empty response from model")
	}

	var suggestion geminiSuggestion
	if err := json.Unmarshal([]byte(cleanModelJSON(rawText)), &suggestion); err != nil {
		return model.ClassificationResult{}, fmt.Errorf("unmarshal suggestion: %w\nraw response: %s", err, rawText)
	}

	if suggestion.Confidence < 0 {
		suggestion.Confidence = 0
	}
	if suggestion.Confidence > 1 {
		suggestion.Confidence = 1
	}

	return model.ClassificationResult{
		Category:   suggestion.Category,
		Confidence: suggestion.Confidence,
		Provider:   "gemini",
	}, nil
}

func (c *GeminiClassifier) buildPrompt(candidate model.TransactionCandidate) string {
	var b strings.Builder
	b.WriteString("You are a personal finance transaction categorizer.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Pick the single best category for the transaction below.\n")
	b.WriteString("- Output STRICT JSON only (no comments, no extra text).\n")
	b.WriteString("- Output exactly: {\"category\": string, \"confidence\": number between 0 and 1}\n")
	b.WriteString("- Do NOT wrap the response in code fences.\n\n")

	if len(c.categories) > 0 {
		b.WriteString("Allowed categories:\n")
		for _, cat := range c.categories {
			b.WriteString("- " + cat + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Transaction:\n")
	b.WriteString("- text: " + candidate.Message.CleanText + "\n")
	b.WriteString("- direction: " + string(candidate.Intent) + "\n")
	if candidate.ExtractedData.Counterparty != "" {
		b.WriteString("- counterparty: " + candidate.ExtractedData.Counterparty + "\n")
	}
	if candidate.ExtractedData.BankOrProvider != "" {
		b.WriteString("- bank: " + candidate.ExtractedData.BankOrProvider + "\n")
	}
	return b.String()
}

// cleanModelJSON strips Markdown fences if the model ignored instructions.
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

	return strings.TrimSpace(s)
}
