package htmltomarkdown_test

import (
	"testing"

	"github.com/jfelczak/snowgrid"
	"github.com/jfelczak/snowgrid/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts basic paragraph", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p>Hello, world!</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "Hello, world!")
	})

	t.Run("converts an HTML table to a Markdown table", func(t *testing.T) {
		t.Parallel()

		html := `<table><thead><tr><th>Number</th><th>State</th></tr></thead>` +
			`<tbody><tr><td>INC001</td><td>Open</td></tr></tbody></table>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "| Number | State |")
		assert.Contains(t, md, "| INC001 | Open |")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.Convert("   ")

		assert.Equal(t, snowgrid.EINVALID, snowgrid.ErrorCode(err))
	})
}

func TestConverter_PreviewTable(t *testing.T) {
	t.Parallel()

	t.Run("renders headers and rows", func(t *testing.T) {
		t.Parallel()

		table := &snowgrid.Table{
			Headers: []string{"Number", "State"},
			Rows: [][]string{
				{"INC001", "Open"},
				{"INC002", "Closed"},
			},
		}

		conv := htmltomarkdown.NewConverter()
		md, err := conv.PreviewTable(table)

		require.NoError(t, err)
		assert.Contains(t, md, "| Number | State |")
		assert.Contains(t, md, "| INC001 | Open |")
		assert.Contains(t, md, "| INC002 | Closed |")
	})

	t.Run("pads ragged rows before rendering", func(t *testing.T) {
		t.Parallel()

		table := &snowgrid.Table{
			Headers: []string{"A", "B"},
			Rows:    [][]string{{"only"}},
		}

		conv := htmltomarkdown.NewConverter()
		md, err := conv.PreviewTable(table)

		require.NoError(t, err)
		assert.Contains(t, md, "| only |")
	})

	t.Run("markup inside cells stays literal text", func(t *testing.T) {
		t.Parallel()

		table := &snowgrid.Table{
			Headers: []string{"Desc"},
			Rows:    [][]string{{"a <b>bold</b> c"}},
		}

		conv := htmltomarkdown.NewConverter()
		md, err := conv.PreviewTable(table)

		require.NoError(t, err)
		assert.NotContains(t, md, "**bold**")
	})

	t.Run("refuses an empty table", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.PreviewTable(&snowgrid.Table{})

		assert.Equal(t, snowgrid.ENOTFOUND, snowgrid.ErrorCode(err))
	})
}
