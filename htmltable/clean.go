// Package htmltable extracts a single tabular dataset from HTML documents.
// It is built for report exports whose markup is frequently malformed:
// input is repaired with structural-tag rewrites, then scanned in one pass
// by a tag-driven state machine over a streaming tokenizer.
package htmltable

import "regexp"

// The cleanup rewrites target tag structure only; text inside cells is
// never touched.
var (
	// <table A></table B> — closing tag carrying attributes meant for
	// the opening tag.
	splitTableTag = regexp.MustCompile(`<table([^>]*?)></table\s+([^>]*?)>`)

	// Self-closing cells, which the tokenizer would otherwise leave
	// unbalanced.
	selfClosingCell = regexp.MustCompile(`<(td|th)([^>]*?)/>`)

	// Accidental doubled table close.
	doubledTableClose = regexp.MustCompile(`</table>\s*</table>`)
)

// Clean repairs common malformed table markup so the document can be
// tokenized structurally. Input that matches none of the patterns passes
// through unchanged; Clean cannot fail.
func Clean(document string) string {
	if document == "" {
		return document
	}

	document = splitTableTag.ReplaceAllString(document, `<table$1 $2>`)
	document = selfClosingCell.ReplaceAllString(document, `<$1$2></$1>`)
	document = doubledTableClose.ReplaceAllString(document, `</table>`)

	return document
}
