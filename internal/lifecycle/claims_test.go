package lifecycle

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalClaims(t *testing.T) {
	c := NewSignalClaims()
	assert.False(t, c.Claimed(syscall.SIGINT))

	release1 := c.Claim(syscall.SIGINT)
	release2 := c.Claim(syscall.SIGINT)
	assert.True(t, c.Claimed(syscall.SIGINT))
	assert.False(t, c.Claimed(syscall.SIGTERM))

	release1()
	release1()
	assert.True(t, c.Claimed(syscall.SIGINT))

	release2()
	assert.False(t, c.Claimed(syscall.SIGINT))
}
