package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifierSequence(t *testing.T) {
	var ids IdentifierSequence
	assert.Equal(t, uint32(0), ids.Next())
	assert.Equal(t, uint32(1), ids.Next())
	assert.Equal(t, uint32(2), ids.Next())
	assert.Equal(t, uint32(3), ids.Issued())
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("debug")
	assert.NoError(t, err)
	assert.Equal(t, DebugLevel, level)

	_, err = ParseLogLevel("chatty")
	assert.Error(t, err)
}
