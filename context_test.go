package revshare

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/iov-one/revshare/errors"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	bg := context.Background()

	// try logger with default
	newLogger := log.NewTMLogger(os.Stdout)
	ctx := WithLogger(bg, newLogger)
	assert.Equal(t, DefaultLogger, GetLogger(bg))
	assert.Equal(t, newLogger, GetLogger(ctx))

	// commit time - uninitialized
	_, err := CommitTime(ctx)
	assert.True(t, errors.ErrHuman.Is(err))

	now := time.Date(2026, time.May, 1, 10, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	ctx = WithCommitTime(ctx, now)
	got, err := CommitTime(ctx)
	assert.NoError(t, err)
	assert.True(t, now.Equal(got))
	assert.Equal(t, time.UTC, got.Location())
	// no reset
	assert.Panics(t, func() { WithCommitTime(ctx, now) })

	// changing the info, should modify the logger, but not the time
	ctx2 := WithLogInfo(ctx, "foo", "bar")
	assert.NotEqual(t, GetLogger(ctx), GetLogger(ctx2))
	got, _ = CommitTime(ctx2)
	assert.True(t, now.Equal(got))
}
