package revshare

import (
	"testing"

	"github.com/iov-one/revshare/errors"
	"github.com/iov-one/revshare/revsharetest/assert"
)

type demoMsg struct {
	Num  int
	Text string
}

var _ Msg = (*demoMsg)(nil)

func (demoMsg) Path() string { return "demo/msg" }

func (m *demoMsg) Validate() error {
	if m.Num < 0 {
		return errors.Wrap(errors.ErrMsg, "negative num")
	}
	return nil
}

type otherMsg struct{}

func (otherMsg) Path() string     { return "demo/other" }
func (*otherMsg) Validate() error { return nil }

type demoTx struct {
	msg Msg
	err error
}

func (tx demoTx) GetMsg() (Msg, error) { return tx.msg, tx.err }

func TestLoadMsg(t *testing.T) {
	cases := map[string]struct {
		tx      Tx
		dest    Msg
		wantErr *errors.Error
		wantMsg *demoMsg
	}{
		"success": {
			tx:      demoTx{msg: &demoMsg{Num: 17, Text: "hello"}},
			dest:    &demoMsg{},
			wantMsg: &demoMsg{Num: 17, Text: "hello"},
		},
		"missing message": {
			tx:      demoTx{},
			dest:    &demoMsg{},
			wantErr: errors.ErrMsg,
		},
		"message error": {
			tx:      demoTx{err: errors.ErrInput},
			dest:    &demoMsg{},
			wantErr: errors.ErrInput,
		},
		"invalid message": {
			tx:      demoTx{msg: &demoMsg{Num: -1}},
			dest:    &demoMsg{},
			wantErr: errors.ErrMsg,
		},
		"type mismatch": {
			tx:      demoTx{msg: &otherMsg{}},
			dest:    &demoMsg{},
			wantErr: errors.ErrType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := LoadMsg(tc.tx, tc.dest)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantMsg != nil {
				assert.Equal(t, tc.wantMsg, tc.dest)
			}
		})
	}
}

func TestGetPath(t *testing.T) {
	assert.Equal(t, "demo/msg", GetPath(demoTx{msg: &demoMsg{}}))
	assert.Equal(t, "(missing)", GetPath(demoTx{}))
}
