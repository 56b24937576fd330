package main

import (
	"context"
	"fmt"

	textile "github.com/alnah/go-textile"
)

// poolAdapter exposes a textile.ConverterPool through the Pool interface.
type poolAdapter struct {
	pool *textile.ConverterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

func (a *poolAdapter) Acquire(ctx context.Context) (CLIConverter, error) {
	c, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Release panics on a converter that did not come from the pool.
func (a *poolAdapter) Release(c CLIConverter) {
	conv, ok := c.(*textile.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}
