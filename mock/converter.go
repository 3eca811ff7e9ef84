package mock

import "github.com/jfelczak/snowgrid"

var _ snowgrid.Converter = (*Converter)(nil)

// Converter is a mock implementation of snowgrid.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
