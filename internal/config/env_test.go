package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "forty")
	t.Setenv("TEST_DURATION", "90s")
	t.Setenv("TEST_SECONDS", "15")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_FLOAT", "0.25")

	assert.Equal(t, 42, envInt("TEST_INT", 1))
	assert.Equal(t, 1, envInt("TEST_BAD_INT", 1))
	assert.Equal(t, 7, envInt("TEST_MISSING", 7))
	assert.Equal(t, 90*time.Second, envDuration("TEST_DURATION", time.Second))
	assert.Equal(t, 15*time.Second, envDuration("TEST_SECONDS", time.Second))
	assert.True(t, envBool("TEST_BOOL", false))
	assert.InDelta(t, 0.25, envFloat("TEST_FLOAT", 1), 1e-9)
	assert.Equal(t, "fallback", envString("TEST_MISSING", "fallback"))
}
