package mock

import (
	"context"

	"github.com/jfelczak/snowgrid"
)

var _ snowgrid.Publisher = (*Publisher)(nil)

// Publisher is a mock implementation of snowgrid.Publisher.
type Publisher struct {
	PublishFn func(ctx context.Context, page *snowgrid.Page) (string, error)
}

func (p *Publisher) Publish(ctx context.Context, page *snowgrid.Page) (string, error) {
	return p.PublishFn(ctx, page)
}
