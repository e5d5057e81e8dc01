package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadNodes_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nodes.geojson")

	nodes := []Node{
		{ID: "a", X: 1.5, Y: 2.5, Name: "Main St & 1st"},
		{ID: "b", X: -3, Y: 4, Name: ""},
	}
	require.NoError(t, WriteNodes(path, nodes))

	got, err := ReadNodes(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	byID := make(map[string]Node, len(got))
	for _, n := range got {
		byID[n.ID] = n
	}
	assert.Equal(t, 1.5, byID["a"].X)
	assert.Equal(t, 2.5, byID["a"].Y)
	assert.Equal(t, "Main St & 1st", byID["a"].Name)
	assert.Equal(t, -3.0, byID["b"].X)
	assert.Equal(t, "", byID["b"].Name)
}

func TestWriteReadEdges_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edges.csv")

	edges := []Edge{
		{From: "a", To: "b", Cost: 0.6},
		{From: "b", To: "a", Cost: 0.6},
		{From: "a", To: "c", Cost: 0.2},
	}
	require.NoError(t, WriteEdges(path, edges))

	got, err := ReadEdges(path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, edges, got)
}

func TestReadEdges_MissingColumnErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("from,to\na,b\n"), 0644))

	_, err := ReadEdges(path)
	assert.Error(t, err)
}

func TestReadNodes_MissingFileErrors(t *testing.T) {
	_, err := ReadNodes(filepath.Join(t.TempDir(), "missing.geojson"))
	assert.Error(t, err)
}
