// Package allpairs runs the bounded Dijkstra in package graph from every
// source node in a graph, in parallel, and streams the resulting (from, to,
// dist) triples out as a single Table. Concurrency is bounded by a
// channel-based worker semaphore plus a sync.WaitGroup, with one scratch
// buffer per worker.
package allpairs

import (
	"context"
	"runtime"
	"sync"

	"netdecay/graph"
)

// Triple is one entry of the all-pairs distance table: the shortest cost
// from From to To, bounded by the cutoff the table was built with.
type Triple[T comparable] struct {
	From T
	To   T
	Dist float64
}

// Table is the immutable result of an all-pairs run: every (from, to, dist)
// triple with dist <= cutoff, including the (s, s, 0) triple for every
// source node that has at least one outgoing edge.
type Table[T comparable] struct {
	Cutoff  float64
	Triples []Triple[T]
}

// Pool bounds how many Dijkstra searches run concurrently during a Run.
// Acquire blocks until a slot is free or ctx is done; Release returns the
// slot. The zero Pool is not usable; construct one with NewPool.
type Pool struct {
	workers chan struct{}
}

// NewPool creates a Pool allowing up to maxConcurrency simultaneous
// searches. maxConcurrency <= 0 defaults to runtime.GOMAXPROCS(0).
func NewPool(maxConcurrency int) *Pool {
	if maxConcurrency <= 0 {
		maxConcurrency = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: make(chan struct{}, maxConcurrency)}
}

// Acquire reserves a worker slot, blocking until one is free or ctx is done.
func (p *Pool) Acquire(ctx context.Context) error {
	select {
	case p.workers <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a worker slot acquired with Acquire.
func (p *Pool) Release() {
	<-p.workers
}

// Run computes the bounded all-pairs distance table for g, dispatching one
// bounded Dijkstra per source node that has at least one outgoing edge
// (nodes with no outgoing edges never appear as a source row) across
// pool's worker slots. Each worker owns a private graph.Scratch, reused
// across the sources it handles, so the number of live Scratch allocations
// is bounded by pool's concurrency rather than by the node count.
//
// Run returns ctx.Err() if ctx is cancelled before every source completes;
// a partial Table is not returned, since a distance table with rows silently
// missing is not a safe substitute for a complete one.
func Run[T comparable](ctx context.Context, g *graph.Graph[T], cutoff float64, pool *Pool) (*Table[T], error) {
	view := g.View()
	n := g.NNodes()
	scratchPool := graph.NewScratchPool(n)

	sources := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if g.HasOutEdges(i) {
			sources = append(sources, i)
		}
	}

	results := make([][]Triple[T], len(sources))

	var wg sync.WaitGroup
	errOnce := make(chan error, 1)
	cancelCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for row, srcIdx := range sources {
		if err := pool.Acquire(cancelCtx); err != nil {
			select {
			case errOnce <- err:
			default:
			}
			break
		}

		wg.Add(1)
		go func(row, srcIdx int) {
			defer wg.Done()
			defer pool.Release()

			scratch := scratchPool.Acquire()
			defer scratchPool.Release(scratch)

			local := make([]Triple[T], 0, 8)
			graph.Dijkstra(view, srcIdx, cutoff, scratch, func(idx int, dist float64) {
				local = append(local, Triple[T]{
					From: g.ExternalID(srcIdx),
					To:   g.ExternalID(idx),
					Dist: dist,
				})
			})
			results[row] = local
		}(row, srcIdx)
	}

	wg.Wait()

	select {
	case err := <-errOnce:
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	triples := make([]Triple[T], 0, total)
	for _, r := range results {
		triples = append(triples, r...)
	}

	return &Table[T]{Cutoff: cutoff, Triples: triples}, nil
}
