// Package llm wraps the Gemini API for program generation. All load
// analysis stays deterministic; the model is only asked to produce or
// patch program drafts, and every draft is re-validated before use.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/claude/trainload/internal/knowledge"
	"github.com/claude/trainload/internal/models"
	"github.com/claude/trainload/internal/program"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// maxRepairAttempts bounds the regenerate loop when the model returns a
// draft that fails validation.
const maxRepairAttempts = 2

// Client generates training programs via the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a Gemini-backed client. An empty model falls back to the
// default.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("LLM API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

const programSystemPrompt = `You are a strength training program designer.
Respond with a single JSON object and nothing else, matching this shape:
{
  "name": "string",
  "sessions": [
    {
      "name": "string",
      "exercises": [
        {"name": "string", "sets": 3, "rep_range": "8-12", "weight": 0}
      ]
    }
  ]
}
Use well-known exercise names. Every session needs at least one exercise.`

// GenerateProgram asks the model for a program draft tailored to the
// profile, validates it, and retries with the validator's findings when
// the draft fails. The returned program always passes validation or an
// error is returned.
func (c *Client) GenerateProgram(ctx context.Context, profile models.UserProfile, volumeContext string, validator *program.Validator) (*models.Program, *program.Result, error) {
	prompt := buildGeneratePrompt(profile, volumeContext)

	var lastIssues string
	for attempt := 0; attempt <= maxRepairAttempts; attempt++ {
		p, err := c.draftProgram(ctx, prompt+lastIssues)
		if err != nil {
			return nil, nil, err
		}

		result := validator.Validate(p, profile)
		if result.IsValid {
			return p, &result, nil
		}

		// A draft whose only blocking errors are coverage gaps gets
		// patched in place, keeping what the model already got right.
		if gapFillOnly(result) {
			patched, err := c.FillGaps(ctx, p, muscleNames(result.MissingMuscles()))
			if err == nil {
				if patchedResult := validator.Validate(patched, profile); patchedResult.IsValid {
					return patched, &patchedResult, nil
				}
			}
		}

		lastIssues = "\n\nYour previous draft had these problems, fix them:\n" + issueLines(result)
	}

	return nil, nil, fmt.Errorf("model produced no valid program after %d attempts", maxRepairAttempts+1)
}

// FillGaps asks the model to extend an existing program so the named
// muscles get direct work, keeping everything already in it.
func (c *Client) FillGaps(ctx context.Context, p *models.Program, missing []string) (*models.Program, error) {
	current, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding program: %w", err)
	}

	prompt := fmt.Sprintf(`This training program does not train: %s.
Add exercises so each of those muscles gets direct work. Keep every
existing session and exercise unchanged. Current program:
%s`, strings.Join(missing, ", "), current)

	return c.draftProgram(ctx, prompt)
}

// Chat answers a free-form coaching question with the volume summary as
// grounding context.
func (c *Client) Chat(ctx context.Context, question, volumeContext string) (string, error) {
	prompt := question
	if volumeContext != "" {
		prompt = volumeContext + "\n\n" + question
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(
				"You are a concise strength training coach. Answer in a few sentences.",
				genai.RoleUser),
		})
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return resp.Text(), nil
}

func (c *Client) draftProgram(ctx context.Context, prompt string) (*models.Program, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(programSystemPrompt, genai.RoleUser),
			ResponseMIMEType:  "application/json",
		})
	if err != nil {
		return nil, fmt.Errorf("generating program: %w", err)
	}

	return ParseProgram(resp.Text())
}

// ParseProgram decodes a model response into a program. Markdown code
// fences around the JSON are tolerated.
func ParseProgram(text string) (*models.Program, error) {
	cleaned := stripCodeFence(text)

	var p models.Program
	if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
		return nil, fmt.Errorf("parsing program JSON: %w", err)
	}
	if len(p.Sessions) == 0 {
		return nil, fmt.Errorf("parsed program has no sessions")
	}
	for _, sess := range p.Sessions {
		if len(sess.Exercises) == 0 {
			return nil, fmt.Errorf("session %q has no exercises", sess.Name)
		}
	}
	return &p, nil
}

func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func buildGeneratePrompt(profile models.UserProfile, volumeContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Design a weekly training program for a %s lifter training for %s.\n",
		profile.Experience, profile.Goal)
	if len(profile.Injuries) > 0 {
		fmt.Fprintf(&b, "Avoid loading these injured areas: %s.\n", strings.Join(profile.Injuries, ", "))
	}
	b.WriteString("Cover chest, back, shoulders, quads, hamstrings, biceps, triceps and core.\n")
	if volumeContext != "" {
		b.WriteString("\nRecent training volume for context:\n")
		b.WriteString(volumeContext)
	}
	return b.String()
}

// gapFillOnly reports whether a failed validation is repairable by
// adding coverage alone: every blocking error is a missing_muscle.
func gapFillOnly(result program.Result) bool {
	if result.IsValid {
		return false
	}
	for _, issue := range result.Issues {
		if issue.Severity == program.SeverityError && issue.Type != program.IssueMissingMuscle {
			return false
		}
	}
	return true
}

func muscleNames(ids []knowledge.MuscleID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return names
}

func issueLines(result program.Result) string {
	var b strings.Builder
	for _, issue := range result.Issues {
		fmt.Fprintf(&b, "- [%s] %s\n", issue.Severity, issue.Message)
	}
	return b.String()
}
