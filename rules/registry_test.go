package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test that Rules returns a defensive copy of the registered set
func TestRegistry_RulesReturnsCopy(t *testing.T) {
	reg := NewRegistry()
	reg.Add(&recordingRule{id: "AV998"})

	first := reg.Rules()
	require.Len(t, first, 1)
	first[0] = nil

	again := reg.Rules()
	require.Len(t, again, 1)
	require.NotNil(t, again[0])
	assert.Equal(t, "AV998", again[0].ID())
}

// Test that the default registry ships every rule exactly once
func TestBuildDefaultRegistry(t *testing.T) {
	shipped := BuildDefaultRegistry().Rules()
	assert.Len(t, shipped, 18)

	seen := make(map[string]bool)
	for _, r := range shipped {
		assert.NotEmpty(t, r.ID())
		assert.NotEmpty(t, r.Description())
		assert.NotEmpty(t, string(r.Category()))
		assert.False(t, seen[r.ID()], "duplicate rule id %s", r.ID())
		seen[r.ID()] = true
	}
}
