package disbursetest

import "github.com/iov-one/disburse"

// Handler is a mock implementation of the disburse.Handler interface.
//
// Each method call is counted. Set Write to have Deliver write a key before
// returning, which allows to test rollback of failed operations.
type Handler struct {
	checkCall   int
	CheckResult disburse.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult disburse.DeliverResult
	DeliverErr    error

	// Write if set is stored during Deliver under the Key of the model.
	Write *disburse.Model
}

var _ disburse.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx disburse.Context, db disburse.KVStore, tx disburse.Tx) (*disburse.CheckResult, error) {
	h.checkCall++
	res := h.CheckResult
	return &res, h.CheckErr
}

func (h *Handler) Deliver(ctx disburse.Context, db disburse.KVStore, tx disburse.Tx) (*disburse.DeliverResult, error) {
	h.deliverCall++
	if h.Write != nil {
		if err := db.Set(h.Write.Key, h.Write.Value); err != nil {
			return nil, err
		}
	}
	res := h.DeliverResult
	return &res, h.DeliverErr
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
