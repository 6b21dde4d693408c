// ABOUTME: Tests for mDNS discovery
// ABOUTME: Exercises construction and the empty-network path
package discovery

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewBrowser(t *testing.T) {
	b := NewBrowser(zerolog.Nop())
	assert.NotNil(t, b)
}
