package parse

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type CodeBlock struct {
	Code     string
	Language string
}

// ExtractCodeBlocks returns the fenced code blocks of a markdown document in
// order of appearance.
func ExtractCodeBlocks(markdownText string) []CodeBlock {
	var blocks []CodeBlock
	source := []byte(markdownText)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		cb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		var sb strings.Builder
		lines := cb.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			sb.Write(seg.Value(source))
		}
		blocks = append(blocks, CodeBlock{
			Code:     sb.String(),
			Language: strings.ToLower(string(cb.Language(source))),
		})
		return ast.WalkSkipChildren, nil
	})
	return blocks
}

// FirstCodeBlock returns the code of the first block tagged with language.
func FirstCodeBlock(markdownText string, language string) (string, bool) {
	for _, b := range ExtractCodeBlocks(markdownText) {
		if b.Language == language {
			return b.Code, true
		}
	}
	return "", false
}
