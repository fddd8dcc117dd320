package utils

import (
	"context"
	"testing"

	"github.com/iov-one/revshare/errors"
	"github.com/iov-one/revshare/revsharetest"
	"github.com/iov-one/revshare/store"
	"github.com/stretchr/testify/assert"
)

func TestRecovery(t *testing.T) {
	h := revsharetest.PanicHandler{Value: "boom"}
	r := NewRecovery()

	ctx := context.Background()
	s := store.MemStore()

	// Panic handler panics. Test the test tool.
	assert.Panics(t, func() { h.Check(ctx, s, nil) })
	assert.Panics(t, func() { h.Deliver(ctx, s, nil) })

	// Recovery wrapped handler returns an error.
	_, err := r.Check(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))

	_, err = r.Deliver(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))
}
