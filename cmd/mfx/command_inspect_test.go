package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPositionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.txt")
	err := os.WriteFile(path, []byte("0,4\n\n1,2\n"), 0o644)
	require.NoError(t, err)

	positions, err := readPositionsFile(path)
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, 0, positions[0].Line)
	assert.Equal(t, 4, positions[0].Column)
	assert.Equal(t, 1, positions[1].Line)
	assert.Equal(t, 2, positions[1].Column)
}

func TestReadPositionsFileRejectsMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.txt")
	err := os.WriteFile(path, []byte("not-a-position\n"), 0o644)
	require.NoError(t, err)

	_, err = readPositionsFile(path)
	assert.Error(t, err)
}
