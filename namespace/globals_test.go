// Copyright © 2026 The elnames authors

package namespace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadGlobals(t *testing.T) {
	g, err := ReadGlobals(strings.NewReader(`
# globals snapshot
var foo-mode-hook
fun foo-setup

var foo-cache
`))
	require.NoError(t, err)
	assert.True(t, g.BoundVar("foo-mode-hook"))
	assert.True(t, g.BoundVar("foo-cache"))
	assert.True(t, g.BoundFun("foo-setup"))
	assert.False(t, g.BoundVar("foo-setup"))
	assert.False(t, g.BoundFun("foo-mode-hook"))
}

func TestReadGlobalsErrors(t *testing.T) {
	for _, src := range []string{
		"macro foo-with-cache",
		"var",
		"fun ",
	} {
		t.Run(src, func(t *testing.T) {
			_, err := ReadGlobals(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}
