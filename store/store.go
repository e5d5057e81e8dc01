// Package store persists the façade's two on-disk artefacts: the node
// table (id, geometry, optional name) as a GeoJSON FeatureCollection via
// github.com/paulmach/orb and orb/geojson, and the edge table (from, to,
// cost) as CSV via encoding/csv. GeoJSON keeps the node table readable by
// common geospatial tooling; the edge table is a plain relational table
// with no geometry requirement, which CSV covers.
//
// The distance-table cache is never persisted here: network.Read always
// re-runs Preprocess after loading a graph.
package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Node is one row of the persisted node table: an external id (always
// round-tripped as its string form, the one constraint persistence places
// on an otherwise-generic external id type), a projected-CRS coordinate, and
// an optional display name.
type Node struct {
	ID   string
	X, Y float64
	Name string
}

// Edge is one row of the persisted edge table.
type Edge struct {
	From, To string
	Cost     float64
}

// WriteNodes writes nodes to path as a GeoJSON FeatureCollection of Point
// geometries, one Feature per node, with "id" and (when set) "name"
// properties.
func WriteNodes(path string, nodes []Node) error {
	fc := geojson.NewFeatureCollection()
	for _, n := range nodes {
		f := geojson.NewFeature(orb.Point{n.X, n.Y})
		f.Properties = geojson.Properties{"id": n.ID}
		if n.Name != "" {
			f.Properties["name"] = n.Name
		}
		fc.Append(f)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("store: marshal node table: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("store: write node table %q: %w", path, err)
	}
	return nil
}

// ReadNodes reads a GeoJSON FeatureCollection of Point nodes written by
// WriteNodes.
func ReadNodes(path string) ([]Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: read node table %q: %w", path, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("store: unmarshal node table: %w", err)
	}

	nodes := make([]Node, 0, len(fc.Features))
	for _, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			return nil, fmt.Errorf("store: node feature geometry is %T, want orb.Point", f.Geometry)
		}
		id, _ := f.Properties["id"].(string)
		name, _ := f.Properties["name"].(string)
		nodes = append(nodes, Node{ID: id, X: pt[0], Y: pt[1], Name: name})
	}
	return nodes, nil
}

var edgeHeader = []string{"from", "to", "cost"}

// WriteEdges writes edges to path as CSV with header "from,to,cost".
func WriteEdges(path string, edges []Edge) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("store: create edge table %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(edgeHeader); err != nil {
		return err
	}
	for _, e := range edges {
		record := []string{e.From, e.To, strconv.FormatFloat(e.Cost, 'g', -1, 64)}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("store: write edge row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// ReadEdges reads a CSV edge table written by WriteEdges.
func ReadEdges(path string) ([]Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: open edge table %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("store: read edge table header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[h] = i
	}
	for _, want := range []string{"from", "to", "cost"} {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("store: edge table missing required column %q", want)
		}
	}

	var edges []Edge
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("store: read edge row: %w", err)
		}
		cost, err := strconv.ParseFloat(rec[cols["cost"]], 64)
		if err != nil {
			return nil, fmt.Errorf("store: parse edge cost %q: %w", rec[cols["cost"]], err)
		}
		edges = append(edges, Edge{From: rec[cols["from"]], To: rec[cols["to"]], Cost: cost})
	}
	return edges, nil
}
