// Package citation extracts source-document citations from Azure OpenAI
// "On Your Data" chat completion payloads and renders them for display.
package citation

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// DefaultMaxContentLength is the display limit for content excerpts.
const DefaultMaxContentLength = 150

// citationsPath is where the service reports citations inside a completion.
const citationsPath = "choices.0.message.context.citations"

// Citation is one retrieved source document referenced by the chat service.
// Values are set at parse time and never mutated.
type Citation struct {
	Title    string
	FilePath string
	Content  string
}

// DisplayTitle returns the title, falling back to the file path, then to a
// fixed label when the service provided neither.
func (c Citation) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	if c.FilePath != "" {
		return c.FilePath
	}
	return "Unknown Document"
}

// Parse extracts citations from a raw chat completion payload. It never
// fails: malformed JSON, a missing first choice, or a missing
// message.context.citations collection all yield an empty result. A citation
// element missing a field gets an empty value for that field. Output order
// matches the payload; nothing is sorted, deduplicated, or filtered.
//
// gjson tolerates malformed documents, so validity is checked up front.
func Parse(raw string) []Citation {
	if raw == "" || !gjson.Valid(raw) {
		return nil
	}
	elems := gjson.Get(raw, citationsPath)
	if !elems.IsArray() {
		return nil
	}
	arr := elems.Array()
	citations := make([]Citation, 0, len(arr))
	for _, elem := range arr {
		citations = append(citations, Citation{
			Title:    elem.Get("title").String(),
			FilePath: elem.Get("filepath").String(),
			Content:  elem.Get("content").String(),
		})
	}
	return citations
}

// Format renders one citation as a numbered display block. The ordinal is
// 1-based. When both title and file path are empty the line falls back to
// "Document N" rather than DisplayTitle's fixed label; the two fallbacks are
// independent presentation rules. Content, when present, is truncated and
// indented on a second line; otherwise the result is the single title line.
func Format(c Citation, ordinal int) string {
	title := c.Title
	if title == "" {
		title = c.FilePath
	}
	if title == "" {
		title = fmt.Sprintf("Document %d", ordinal)
	}
	out := fmt.Sprintf("  [%d] %s", ordinal, title)
	if c.Content != "" {
		out += "\n      " + Truncate(c.Content, DefaultMaxContentLength)
	}
	return out
}

// Truncate shortens content to at most maxLen characters, appending "..."
// when anything was cut. Input of exactly maxLen characters is returned
// unchanged; empty input stays empty.
func Truncate(content string, maxLen int) string {
	if content == "" {
		return ""
	}
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	return string(runes[:maxLen]) + "..."
}
