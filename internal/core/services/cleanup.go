package services

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var (
	tagPattern       = regexp.MustCompile(`</?[A-Za-z][^>]*>`)
	blankRunsPattern = regexp.MustCompile(`\n{3,}`)
)

// CleanResponse turns a backend response into plain text for the clipboard.
// XML-like tags are dropped and their inner text kept; code fences are
// removed and their code kept; emphasis and link markup are flattened.
func CleanResponse(response string) string {
	src := []byte(response)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Document:
			return ast.WalkContinue, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				writeLines(&b, n, src)
				b.WriteString("\n")
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock:
			if entering {
				var raw strings.Builder
				writeLines(&raw, n, src)
				if node.HasClosure() {
					raw.Write(node.ClosureLine.Value(src))
				}
				b.WriteString(tagPattern.ReplaceAllString(raw.String(), ""))
				b.WriteString("\n")
			}
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteString("\n")
				}
			}
		case *ast.String:
			if entering {
				b.Write(node.Value)
			}
		case *ast.AutoLink:
			if entering {
				b.Write(node.Label(src))
			}
			return ast.WalkSkipChildren, nil
		}

		if !entering && n.Type() == ast.TypeBlock {
			b.WriteString("\n")
			if n.Parent() != nil && n.Parent().Kind() == ast.KindDocument {
				b.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})

	out := blankRunsPattern.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(out)
}

func writeLines(b *strings.Builder, n ast.Node, src []byte) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
}
