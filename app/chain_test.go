package app

import (
	"context"
	"testing"

	"github.com/iov-one/disburse"
	"github.com/iov-one/disburse/disbursetest"
	"github.com/iov-one/disburse/errors"
	"github.com/iov-one/disburse/x/utils"
	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	c1 := &disbursetest.Decorator{}
	c2 := &disbursetest.Decorator{}
	c3 := &disbursetest.Decorator{}
	h := &disbursetest.Handler{}

	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		utils.NewRecovery(),
		c2,
		panicAtHeight(6),
		c3,
	).WithHandler(h)

	bg := context.Background()

	// make some calls, make sure it is fine
	_, err := stack.Check(bg, nil, nil)
	assert.NoError(t, err)
	ctx := disburse.WithHeight(bg, 4)
	_, err = stack.Deliver(ctx, nil, nil)
	assert.NoError(t, err)

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// now, let's trigger a panic
	ctx = disburse.WithHeight(bg, 8)
	_, err = stack.Check(ctx, nil, nil)
	assert.True(t, errors.ErrPanic.Is(err))
	_, err = stack.Deliver(ctx, nil, nil)
	assert.True(t, errors.ErrPanic.Is(err))

	// decorators before the panic are called, after are not
	assert.Equal(t, 4, c1.CallCount())
	assert.Equal(t, 4, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainStopsOnError(t *testing.T) {
	first := &disbursetest.Decorator{DeliverErr: errors.ErrUnauthorized}
	second := &disbursetest.Decorator{}
	h := &disbursetest.Handler{}

	stack := ChainDecorators(first, second).WithHandler(h)

	_, err := stack.Deliver(context.Background(), nil, nil)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, 1, first.DeliverCallCount())
	assert.Equal(t, 0, second.DeliverCallCount())
	assert.Equal(t, 0, h.DeliverCallCount())

	// check path is not affected
	_, err = stack.Check(context.Background(), nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, h.CheckCallCount())
}

func TestChainNilDecorators(t *testing.T) {
	var nilDecorator *disbursetest.Decorator
	d := &disbursetest.Decorator{}
	h := &disbursetest.Handler{}

	chain := ChainDecorators(nil, d, nilDecorator).Chain(nil)
	assert.Len(t, chain.chain, 1)

	_, err := chain.WithHandler(h).Deliver(context.Background(), nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, d.DeliverCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())
}

// panicAtHeight returns a decorator that panics when the context height is
// greater than the given one.
type panicAtHeight int64

var _ disburse.Decorator = panicAtHeight(0)

func (p panicAtHeight) Check(ctx disburse.Context, db disburse.KVStore, tx disburse.Tx, next disburse.Checker) (*disburse.CheckResult, error) {
	if h, _ := disburse.GetHeight(ctx); h > int64(p) {
		panic("too high")
	}
	return next.Check(ctx, db, tx)
}

func (p panicAtHeight) Deliver(ctx disburse.Context, db disburse.KVStore, tx disburse.Tx, next disburse.Deliverer) (*disburse.DeliverResult, error) {
	if h, _ := disburse.GetHeight(ctx); h > int64(p) {
		panic("too high")
	}
	return next.Deliver(ctx, db, tx)
}
