package preview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgallion1/examtex/internal/markup"
)

var (
	mathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Underline(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	blockStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69")).PaddingLeft(4)
)

// Terminal renders nodes for a terminal. Math is shown as its source since
// a terminal cannot display typeset output.
func Terminal(nodes []markup.Node) string {
	var sb strings.Builder
	writeTerminal(&sb, nodes, "")
	return sb.String()
}

func writeTerminal(sb *strings.Builder, nodes []markup.Node, indent string) {
	for _, n := range nodes {
		switch n.Kind {
		case markup.NodeText:
			if n.Hint == markup.HintError {
				sb.WriteString(errorStyle.Render(n.Text))
				continue
			}
			sb.WriteString(textStyle(n.Style).Render(n.Text))
		case markup.NodeMath:
			if n.Display {
				lineBreak(sb)
				sb.WriteString(blockStyle.Render(n.Expr))
				sb.WriteString("\n")
				continue
			}
			sb.WriteString(mathStyle.Render(n.Source))
		case markup.NodeLineBreak:
			sb.WriteString("\n" + indent)
		case markup.NodeLabel:
			sb.WriteString(labelStyle.Render(n.Text) + " ")
		case markup.NodeList:
			lineBreak(sb)
			for _, it := range n.Items {
				sb.WriteString(indent + "  ")
				writeTerminal(sb, it.Nodes, indent+"    ")
				lineBreak(sb)
			}
		}
	}
}

func textStyle(s markup.Style) lipgloss.Style {
	return lipgloss.NewStyle().Bold(s.Bold).Italic(s.Italic).Underline(s.Underline)
}

// lineBreak starts a new line unless the output already ends one.
func lineBreak(sb *strings.Builder) {
	if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
		sb.WriteString("\n")
	}
}
