package app

import (
	"context"
	"testing"

	"github.com/iov-one/revshare/errors"
	"github.com/iov-one/revshare/revsharetest"
	"github.com/iov-one/revshare/x/utils"
	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	c1 := &revsharetest.Decorator{}
	c2 := &revsharetest.Decorator{}
	c3 := &revsharetest.Decorator{}
	h := &revsharetest.Handler{}

	stack := ChainDecorators(
		c1,
		utils.NewLogging(nil),
		utils.NewRecovery(),
		c2,
		nil,
		c3,
	).WithHandler(h)

	bg := context.Background()
	tx := &revsharetest.Tx{Msg: &revsharetest.Msg{RoutePath: "test/chain"}}

	_, err := stack.Check(bg, nil, tx)
	assert.NoError(t, err)
	_, err = stack.Deliver(bg, nil, tx)
	assert.NoError(t, err)

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 1, h.CheckCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())

	// A failing decorator stops the chain.
	c2.DeliverErr = errors.ErrUnauthorized
	_, err = stack.Deliver(bg, nil, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, 3, c1.CallCount())
	assert.Equal(t, 3, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestChainRecoversPanic(t *testing.T) {
	stack := ChainDecorators(
		utils.NewRecovery(),
	).WithHandler(revsharetest.PanicHandler{Value: "boom"})

	_, err := stack.Deliver(context.Background(), nil, &revsharetest.Tx{})
	assert.True(t, errors.ErrPanic.Is(err))
}
