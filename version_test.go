package revshare_test

import (
	"testing"

	"github.com/iov-one/revshare"
	"github.com/stretchr/testify/assert"
)

func TestVersionString(t *testing.T) {
	defer func(c string) { revshare.GitCommit = c }(revshare.GitCommit)

	revshare.GitCommit = ""
	assert.Equal(t, revshare.Version, revshare.VersionString())

	revshare.GitCommit = "12345678"
	assert.Equal(t, revshare.Version+" 12345678", revshare.VersionString())
}
