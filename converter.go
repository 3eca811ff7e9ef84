package snowgrid

// Converter converts HTML to Markdown, used to preview extracted tables in
// the terminal.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	Convert(html string) (string, error)
}
