package csv_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jfelczak/snowgrid"
	"github.com/jfelczak/snowgrid/csv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTable(t *testing.T) {
	t.Parallel()

	t.Run("writes header then rectangularized rows", func(t *testing.T) {
		t.Parallel()

		table := &snowgrid.Table{
			Headers: []string{"Number", "State"},
			Rows: [][]string{
				{"INC001", "Open"},
				{"INC002"},
				{"INC003", "Closed", "extra"},
			},
		}

		var buf bytes.Buffer
		require.NoError(t, csv.WriteTable(&buf, table))

		assert.Equal(t, "Number,State\nINC001,Open\nINC002,\nINC003,Closed\n", buf.String())
	})

	t.Run("quotes values containing commas", func(t *testing.T) {
		t.Parallel()

		table := &snowgrid.Table{
			Headers: []string{"Desc"},
			Rows:    [][]string{{"a, b"}},
		}

		var buf bytes.Buffer
		require.NoError(t, csv.WriteTable(&buf, table))

		assert.Equal(t, "Desc\n\"a, b\"\n", buf.String())
	})

	t.Run("refuses an empty table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := csv.WriteTable(&buf, &snowgrid.Table{})

		assert.Equal(t, snowgrid.ENOTFOUND, snowgrid.ErrorCode(err))
	})
}

func TestReadTable(t *testing.T) {
	t.Parallel()

	t.Run("round-trips a written table", func(t *testing.T) {
		t.Parallel()

		table := &snowgrid.Table{
			Headers: []string{"Number", "State"},
			Rows:    [][]string{{"INC001", "Open"}},
		}

		var buf bytes.Buffer
		require.NoError(t, csv.WriteTable(&buf, table))

		got, err := csv.ReadTable(&buf)

		require.NoError(t, err)
		assert.Equal(t, table.Headers, got.Headers)
		assert.Equal(t, table.Rows, got.Rows)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := csv.ReadTable(strings.NewReader(""))

		assert.Equal(t, snowgrid.ENOTFOUND, snowgrid.ErrorCode(err))
	})
}
