package textutil

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// BlockKind classifies a flattened notes block.
type BlockKind int

// Block kinds.
const (
	BlockParagraph BlockKind = iota
	BlockBullet
	BlockHeading
)

// Block is one layout unit extracted from free-text notes.
type Block struct {
	Kind   BlockKind
	Text   string
	Marker string // "-" or "1." for bullets
	Depth  int    // list nesting, 0 for top level
}

var notesMarkdown = goldmark.New(
	goldmark.WithExtensions(
		extension.Strikethrough,
		extension.Linkify,
	),
)

// NotesBlocks parses notes as Markdown and flattens them into paragraphs,
// bullets and headings. Plain text yields one paragraph per blank-line
// separated chunk. Inline formatting is dropped.
func NotesBlocks(md string) []Block {
	md = strings.ReplaceAll(md, "\r\n", "\n")
	if strings.TrimSpace(md) == "" {
		return nil
	}
	src := []byte(md)
	doc := notesMarkdown.Parser().Parse(text.NewReader(src))

	var blocks []Block
	collect(doc, src, 0, &blocks)
	return blocks
}

func collect(n ast.Node, src []byte, depth int, out *[]Block) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Heading:
			appendBlock(out, Block{Kind: BlockHeading, Text: inline(node, src)})
		case *ast.Paragraph, *ast.TextBlock:
			appendBlock(out, Block{Kind: BlockParagraph, Text: inline(node, src), Depth: depth})
		case *ast.List:
			collectList(node, src, depth, out)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				appendBlock(out, Block{Kind: BlockParagraph, Text: string(seg.Value(src)), Depth: depth})
			}
		case *ast.ThematicBreak, *ast.HTMLBlock:
		default:
			collect(c, src, depth, out)
		}
	}
}

func collectList(list *ast.List, src []byte, depth int, out *[]Block) {
	num := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "-"
		if list.IsOrdered() {
			marker = strconv.Itoa(num) + "."
			num++
		}
		first := item.FirstChild()
		if first == nil {
			continue
		}
		switch first.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			appendBlock(out, Block{Kind: BlockBullet, Text: inline(first, src), Marker: marker, Depth: depth})
			for rest := first.NextSibling(); rest != nil; rest = rest.NextSibling() {
				if sub, ok := rest.(*ast.List); ok {
					collectList(sub, src, depth+1, out)
					continue
				}
				collectOne(rest, src, depth+1, out)
			}
		default:
			collect(item, src, depth+1, out)
		}
	}
}

// collectOne flattens a single block node.
func collectOne(n ast.Node, src []byte, depth int, out *[]Block) {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		appendBlock(out, Block{Kind: BlockParagraph, Text: inline(node, src), Depth: depth})
	default:
		collect(n, src, depth, out)
	}
}

func appendBlock(out *[]Block, b Block) {
	b.Text = strings.Join(strings.Fields(b.Text), " ")
	if b.Text == "" {
		return
	}
	*out = append(*out, b)
}

// inline concatenates the text of an inline subtree.
func inline(n ast.Node, src []byte) string {
	var b strings.Builder
	writeInline(n, src, &b)
	return b.String()
}

func writeInline(n ast.Node, src []byte, b *strings.Builder) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.URL(src))
		default:
			writeInline(c, src, b)
		}
	}
}
