package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(newRootCmd(), "version")
	require.NoError(t, err)
	require.Contains(t, out, "dnsherd")
}
