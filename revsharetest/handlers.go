package revsharetest

import "github.com/iov-one/revshare"

// Handler is a mock implementation of the revshare.Handler interface.
// Each method call is counted.
type Handler struct {
	checkCall   int
	CheckResult revshare.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult revshare.DeliverResult
	DeliverErr    error
}

var _ revshare.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*revshare.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*revshare.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
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

// WriteHandler writes given key value pair and returns DeliverErr, if
// set, after the write.
type WriteHandler struct {
	Key        []byte
	Value      []byte
	DeliverErr error
}

var _ revshare.Handler = (*WriteHandler)(nil)

func (h *WriteHandler) Check(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*revshare.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &revshare.CheckResult{}, h.DeliverErr
}

func (h *WriteHandler) Deliver(ctx revshare.Context, db revshare.KVStore, tx revshare.Tx) (*revshare.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &revshare.DeliverResult{}, h.DeliverErr
}

// PanicHandler always panics with given value.
type PanicHandler struct {
	Value interface{}
}

var _ revshare.Handler = PanicHandler{}

func (h PanicHandler) Check(revshare.Context, revshare.KVStore, revshare.Tx) (*revshare.CheckResult, error) {
	panic(h.Value)
}

func (h PanicHandler) Deliver(revshare.Context, revshare.KVStore, revshare.Tx) (*revshare.DeliverResult, error) {
	panic(h.Value)
}
