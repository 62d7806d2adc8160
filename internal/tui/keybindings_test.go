package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap_ReadOnlyDisablesDecisions(t *testing.T) {
	km := DefaultKeyMap(false)

	assert.False(t, km.Accept.Enabled())
	assert.False(t, km.Reject.Enabled())
	assert.False(t, km.Edit.Enabled())
	assert.True(t, km.Cancel.Enabled())
}

func TestDefaultKeyMap_Reviewable(t *testing.T) {
	km := DefaultKeyMap(true)

	assert.True(t, km.Accept.Enabled())
	assert.True(t, km.Reject.Enabled())
	assert.Len(t, km.ShortHelp(), 5)
	assert.Len(t, km.FullHelp(), 3)
}
