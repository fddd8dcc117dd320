package app

import (
	"context"
	"testing"

	"github.com/iov-one/revshare/errors"
	"github.com/iov-one/revshare/revsharetest"
	"github.com/iov-one/revshare/revsharetest/assert"
)

func TestRouterSuccess(t *testing.T) {
	r := NewRouter()

	var (
		msg     = &revsharetest.Msg{RoutePath: "test/1"}
		handler = &revsharetest.Handler{}
	)

	r.Handle(msg, handler)

	if _, err := r.Check(context.TODO(), nil, &revsharetest.Tx{Msg: msg}); err != nil {
		t.Fatalf("check failed: %s", err)
	}
	if _, err := r.Deliver(context.TODO(), nil, &revsharetest.Tx{Msg: msg}); err != nil {
		t.Fatalf("deliver failed: %s", err)
	}
	if n := handler.CallCount(); n != 2 {
		t.Fatalf("expected 2 calls, got %d", n)
	}
}

func TestRouterNoHandler(t *testing.T) {
	r := NewRouter()

	tx := &revsharetest.Tx{Msg: &revsharetest.Msg{RoutePath: "test/1"}}

	_, err := r.Check(context.TODO(), nil, tx)
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = r.Deliver(context.TODO(), nil, tx)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestRouterMissingMessage(t *testing.T) {
	r := NewRouter()

	_, err := r.Deliver(context.TODO(), nil, &revsharetest.Tx{})
	assert.IsErr(t, errors.ErrMsg, err)

	_, err = r.Check(context.TODO(), nil, &revsharetest.Tx{Err: errors.ErrInput})
	assert.IsErr(t, errors.ErrInput, err)
}

func TestRouterInvalidPath(t *testing.T) {
	r := NewRouter()

	assert.Panics(t, func() {
		r.Handle(&revsharetest.Msg{RoutePath: "this/is-invalid"}, &revsharetest.Handler{})
	})
}

func TestRouterDuplicatedPath(t *testing.T) {
	r := NewRouter()
	msg := &revsharetest.Msg{RoutePath: "test/1"}
	r.Handle(msg, &revsharetest.Handler{})

	assert.Panics(t, func() {
		r.Handle(msg, &revsharetest.Handler{})
	})
}
