package prompt

import "strings"

const basePrompt = `You are PaperMorph AI Assistant - integrated into PaperMorph, a professional document editor.

ABOUT PAPERMORPH:
- Word processor with Microsoft Word-like features
- Supports formatting, spacing, tables, and templates
- Rich text editing with AI assistance
- Export capabilities (HTML, text)

KEY CAPABILITIES:
- Generate professional documents (letters, emails, reports, proposals, essays)
- Edit and transform text (rewrite, condense, expand, fix grammar)
- Create tables and structured content
- Provide formatting suggestions
- Maintain document context and coherence`

const responseGuidelines = `RESPONSE GUIDELINES:
- Return content ready to apply directly to the document
- Use HTML formatting when structure is needed (headings, tables, etc.)
- NO MARKDOWN - use HTML instead
- For text transformations, return only the transformed text
- For documents, return the complete formatted content
- NO explanations or preamble
- NO "Here's the..." or similar phrases
- Keep it concise but complete
- Consider the current document context for relevance`

// BuildSystemPrompt assembles the system prompt for one request: the base
// identity, the current document content when present, the instruction block
// of the matched use case, the response guidelines, and finally any custom
// instructions the user saved in their preferences.
func (r *Registry) BuildSystemPrompt(documentContext, userQuery string, systemInstructions *string) string {
	var b strings.Builder
	b.WriteString(basePrompt)

	if strings.TrimSpace(documentContext) != "" {
		b.WriteString("\n\nCURRENT DOCUMENT CONTENT:\n---\n")
		b.WriteString(documentContext)
		b.WriteString("\n---")
	}

	if uc := r.Match(userQuery); uc != nil {
		b.WriteString("\n\nUSER REQUEST TYPE: ")
		b.WriteString(string(uc.ContentType))
		b.WriteString("\nSPECIFIC INSTRUCTIONS:\n")
		b.WriteString(uc.Instruction)
	}

	b.WriteString("\n\n")
	b.WriteString(responseGuidelines)

	if systemInstructions != nil && strings.TrimSpace(*systemInstructions) != "" {
		b.WriteString("\n\nUSER INSTRUCTIONS:\n")
		b.WriteString(*systemInstructions)
	}

	return b.String()
}
