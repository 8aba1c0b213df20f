package assist

import (
	"fmt"
	"strings"
)

const ModifySystemPrompt = `You edit exam questions written in plain text mixed with a small LaTeX subset.

Supported markup:
- Inline math: $...$ or \(...\). Display math: $$...$$ or \[...\].
- Formatting: \textbf{...}, \textit{...}, \emph{...}, \underline{...}.
- Line breaks: \\ or \newline.
- Lists: \begin{itemize} or \begin{enumerate} with \item or \item[label]. Lists do not nest.
- A literal dollar sign is written \$.

Rules:
- Apply the instruction and change nothing else.
- Keep every math expression valid LaTeX math.
- Do not add commands outside the supported markup.
- Respond with ONLY the full modified question text, no commentary and no code fences.`

const CreateSystemPrompt = `You write exam questions in plain text mixed with a small LaTeX subset.

Supported markup:
- Inline math: $...$ or \(...\). Display math: $$...$$ or \[...\].
- Formatting: \textbf{...}, \textit{...}, \emph{...}, \underline{...}.
- Line breaks: \\ or \newline.
- Lists: \begin{itemize} or \begin{enumerate} with \item or \item[label]. Lists do not nest.

Return a JSON array. Each object must have these fields:
- "text": the question (string, uses the markup above)
- "answer": the expected answer (string, may use the markup above)
- "options": answer choices for multiple choice, otherwise [] (list of strings)
- "difficulty": one of "easy", "medium", "hard"
- "marks": positive integer
- "tags": up to 5 lowercase tags (list of strings)

Respond with ONLY the JSON array, no other text.`

// BuildModifyPrompt wraps the current text and instruction for Modify.
func BuildModifyPrompt(req ModifyRequest) string {
	var sb strings.Builder
	sb.WriteString("Instruction: ")
	sb.WriteString(strings.TrimSpace(req.Instruction))
	sb.WriteString("\n\n---\n")
	sb.WriteString(req.CurrentText)
	return sb.String()
}

// BuildCreatePrompt describes the questions Create should generate.
func BuildCreatePrompt(req CreateRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write %d question", req.Count)
	if req.Count != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " on the topic %q.", strings.TrimSpace(req.Topic))
	if req.Difficulty != "" {
		fmt.Fprintf(&sb, " Difficulty: %s.", req.Difficulty)
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		sb.WriteString("\n\nNotes from the author:\n")
		sb.WriteString(notes)
	}
	return sb.String()
}
