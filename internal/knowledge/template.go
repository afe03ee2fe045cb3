package knowledge

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultFallback is the exact sentence the model must emit when a question
// is not answerable from the fact table. It is a content-level outcome, not a
// failure, and must never be retried or logged as an error.
const DefaultFallback = "I'm sorry, I cannot answer that question with the information I have."

// Template is the fixed block of company facts and behavioral instructions
// prepended to every user question. It is immutable after load; swapping the
// fact table is a configuration change, not a code change.
type Template struct {
	Version      int       `yaml:"version"`
	BotName      string    `yaml:"bot_name"`
	Company      string    `yaml:"company"`
	Description  string    `yaml:"description"`
	Facts        []Fact    `yaml:"facts"`
	Fallback     string    `yaml:"fallback"`
	Instructions []string  `yaml:"instructions"`
	Examples     []Example `yaml:"examples"`
}

// Fact is one entry in the company information section.
type Fact struct {
	Label string `yaml:"label"`
	Text  string `yaml:"text"`
}

// Example is a worked question/answer pair shown to the model.
type Example struct {
	User     string `yaml:"user"`
	Response string `yaml:"response"`
}

// Validate rejects templates that cannot carry the answering contract.
func (t *Template) Validate() error {
	if t == nil {
		return errors.New("knowledge: template is nil")
	}
	if strings.TrimSpace(t.BotName) == "" {
		return errors.New("knowledge: bot_name is required")
	}
	if strings.TrimSpace(t.Company) == "" {
		return errors.New("knowledge: company is required")
	}
	if len(t.Facts) == 0 {
		return errors.New("knowledge: fact table is empty")
	}
	for i, f := range t.Facts {
		if strings.TrimSpace(f.Label) == "" || strings.TrimSpace(f.Text) == "" {
			return fmt.Errorf("knowledge: fact %d is missing label or text", i)
		}
	}
	if strings.TrimSpace(t.Fallback) == "" {
		return errors.New("knowledge: fallback sentence is required")
	}
	return nil
}
