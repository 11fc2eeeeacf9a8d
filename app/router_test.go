package app

import (
	"testing"

	"github.com/iov-one/disburse/disbursetest"
	"github.com/iov-one/disburse/errors"
	"github.com/stretchr/testify/assert"
)

func TestRouter(t *testing.T) {
	r := NewRouter()
	good, bad, missing := "good", "bad", "missing"

	// register some routers
	counter := &disbursetest.Handler{}
	r.Handle(good, counter)
	r.Handle(bad, &disbursetest.Handler{
		CheckErr:   errors.ErrInput,
		DeliverErr: errors.ErrInput,
	})

	// make sure invalid registrations panic
	assert.Panics(t, func() { r.Handle(good, counter) })
	assert.Panics(t, func() { r.Handle("l:7", counter) })
	assert.Panics(t, func() { r.Handle("", counter) })

	// check proper paths work
	assert.Equal(t, 0, counter.CallCount())
	_, err := r.Handler(good).Check(nil, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, counter.CallCount())

	// check errors handler is also looked up
	_, err = r.Handler(bad).Deliver(nil, nil, nil)
	assert.True(t, errors.ErrInput.Is(err))
	assert.False(t, IsNoSuchPathErr(err))
	assert.Equal(t, 1, counter.CallCount())

	// make sure not found returns an error handler as well
	_, err = r.Handler(missing).Deliver(nil, nil, nil)
	assert.True(t, IsNoSuchPathErr(err))
	_, err = r.Handler(missing).Check(nil, nil, nil)
	assert.True(t, IsNoSuchPathErr(err))
	assert.Equal(t, 1, counter.CallCount())
}

func TestRouterDispatch(t *testing.T) {
	r := NewRouter()
	h := &disbursetest.Handler{}
	r.Handle("sendtokens/send", h)

	tx := &disbursetest.Tx{Msg: &disbursetest.Msg{RoutePath: "sendtokens/send"}}
	_, err := r.Check(nil, nil, tx)
	assert.NoError(t, err)
	_, err = r.Deliver(nil, nil, tx)
	assert.NoError(t, err)
	assert.Equal(t, 1, h.CheckCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())

	unknown := &disbursetest.Tx{Msg: &disbursetest.Msg{RoutePath: "sendtokens/burn"}}
	_, err = r.Deliver(nil, nil, unknown)
	assert.True(t, IsNoSuchPathErr(err))

	_, err = r.Deliver(nil, nil, &disbursetest.Tx{})
	assert.True(t, errors.ErrMsg.Is(err))

	_, err = r.Check(nil, nil, &disbursetest.Tx{Err: errors.ErrType})
	assert.True(t, errors.ErrType.Is(err))
	assert.Equal(t, 2, h.CallCount())
}
