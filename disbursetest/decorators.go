package disbursetest

import "github.com/iov-one/disburse"

// Decorator is a mock implementation of the disburse.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ disburse.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx disburse.Context, db disburse.KVStore, tx disburse.Tx, next disburse.Checker) (*disburse.CheckResult, error) {
	d.checkCall++

	if d.CheckErr != nil {
		return &disburse.CheckResult{}, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx disburse.Context, db disburse.KVStore, tx disburse.Tx, next disburse.Deliverer) (*disburse.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return &disburse.DeliverResult{}, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate returns a handler that calls given decorator with the handler as
// the next step.
func Decorate(h disburse.Handler, d disburse.Decorator) disburse.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn disburse.Handler
	dc disburse.Decorator
}

var _ disburse.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx disburse.Context, db disburse.KVStore, tx disburse.Tx) (*disburse.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx disburse.Context, db disburse.KVStore, tx disburse.Tx) (*disburse.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
