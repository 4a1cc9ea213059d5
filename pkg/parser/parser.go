// pkg/parser/parser.go
package parser

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

// ExtractText returns the visible text of an HTML document with
// whitespace runs collapsed to single spaces.
func (p *Parser) ExtractText(content []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", err
	}

	// if its script or style ignore
	doc.Find("script, style, noscript, template").Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var parts []string
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	for _, n := range root.Nodes {
		extractText(n)
	}

	// Text nodes of adjacent elements are separated so block
	// boundaries don't glue words together.
	return normalizeSpace(strings.Join(parts, " ")), nil
}

// ParseLines splits a batch file into inputs, one per line. Blank lines
// and lines starting with "#" are skipped; other lines are kept verbatim.
func (p *Parser) ParseLines(content []byte) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
