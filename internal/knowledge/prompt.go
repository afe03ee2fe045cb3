package knowledge

import (
	"fmt"
	"strings"
)

// BuildPrompt merges the template with one user message into the full prompt
// sent to the generation API. It is a pure function: the template portion is
// byte-identical across calls and only the trailing question segment varies
// with the user message.
//
// The user message is embedded verbatim, including text that looks like
// instructions. Prompt injection through that segment is a known exposure of
// this design and is intentionally not mitigated here.
func BuildPrompt(t *Template, userMessage string) string {
	var b strings.Builder
	b.WriteString(renderStatic(t))
	b.WriteString("Here is the user's question: '")
	b.WriteString(userMessage)
	b.WriteString("'\n")
	return b.String()
}

// StaticPrefix returns the invariant template portion of the prompt.
func StaticPrefix(t *Template) string {
	return renderStatic(t)
}

func renderStatic(t *Template) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a chatbot named %s, a customer service representative for %s.\n", t.BotName, t.Company)
	if t.Description != "" {
		b.WriteString(t.Description)
		b.WriteString(" Your goal is to provide concise and accurate information.\n")
	}
	b.WriteString("\nHere is the *only* information you are allowed to use. Do *not* use any other information, and do not make up any details. Respond *exactly* as specified.\n")

	b.WriteString("\nCOMPANY INFORMATION:\n\n")
	for _, f := range t.Facts {
		fmt.Fprintf(&b, "-   **%s:** %s\n", f.Label, f.Text)
	}

	b.WriteString("\nINSTRUCTIONS:\n\n")
	n := 1
	for _, line := range coreInstructions(t.Fallback) {
		fmt.Fprintf(&b, "%d.  %s\n", n, line)
		n++
	}
	for _, line := range t.Instructions {
		fmt.Fprintf(&b, "%d.  %s\n", n, line)
		n++
	}

	if len(t.Examples) > 0 {
		b.WriteString("\nEXAMPLES:\n\n")
		for _, ex := range t.Examples {
			fmt.Fprintf(&b, "User: %s\nResponse: %s\n\n", ex.User, ex.Response)
		}
	} else {
		b.WriteString("\n")
	}

	return b.String()
}

// coreInstructions is the load-bearing contract of the whole pipeline:
// facts-only answering, the exact fallback sentence, and no preambles.
func coreInstructions(fallback string) []string {
	return []string{
		"Be brief and professional.",
		`Answer the user's question using *only* the information in the "COMPANY INFORMATION" section above.`,
		"Do *not* make up any information.",
		fmt.Sprintf("If the user asks a question that cannot be answered from the provided information, respond *exactly* with the phrase: %q", fallback),
		`Do not include any introductory phrases like "According to the provided information:". Just provide the answer.`,
	}
}
