package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"permafrost/models"
)

const narrativeSystemPrompt = "You are writing for a FinOps and cloud reliability audience. " +
	"You are given JSON with recovery metrics for evaluated restore strategies, including a ranking with regret. " +
	"Write 3-4 sentences in a calm, practitioner voice. Be specific about RTO hit or miss, total recovery time, " +
	"storage trade-offs, and the rough order of magnitude of downtime risk. " +
	"Do not use buzzwords and do not talk about yourself. " +
	"Sound like a senior engineer explaining the trade to a CFO and an SRE in the same room."

// NarrativeService produces an optional executive summary of already-computed
// results via an LLM. It only ever reads result structures: numbers are final
// before it runs, and any failure here leaves them untouched.
type NarrativeService struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	enabled bool
}

// NewNarrativeService returns a disabled service when no API key is
// configured. Callers don't need to care: Generate on a disabled service
// returns nil.
func NewNarrativeService(apiKey, model string) *NarrativeService {
	if apiKey == "" {
		log.Println("OpenAI API key not provided, narratives disabled")
		return &NarrativeService{enabled: false}
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &NarrativeService{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: 20 * time.Second,
		enabled: true,
	}
}

func (ns *NarrativeService) Enabled() bool {
	return ns != nil && ns.enabled
}

// Generate returns a narrative for an evaluated scenario, or nil when the
// service is disabled or the call fails.
func (ns *NarrativeService) Generate(ctx context.Context, eval models.ScenarioEvaluation) *string {
	if !ns.Enabled() {
		return nil
	}

	// Strip any previous narrative before handing the payload to the model.
	eval.Narrative = nil
	payload, err := json.Marshal(eval)
	if err != nil {
		log.Printf("Narrative payload marshal failed: %v", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, ns.timeout)
	defer cancel()

	resp, err := ns.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       ns.model,
		MaxTokens:   300,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: narrativeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
	})
	if err != nil {
		log.Printf("Narrative generation failed: %v", err)
		return nil
	}
	if len(resp.Choices) == 0 {
		return nil
	}

	text := resp.Choices[0].Message.Content
	return &text
}
