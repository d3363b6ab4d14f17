package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := executeCommand("version")
	require.NoError(t, err)
	assert.Contains(t, out, "recall version dev")
}

func TestSetVersion(t *testing.T) {
	defer SetVersion("dev")

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}
