package worker

import (
	"sync"

	"github.com/gojiplus/lostyears/internal/lifetable"
	"github.com/gojiplus/lostyears/internal/table"
)

// minChunk keeps tiny batches on a single worker; splitting them buys
// nothing and costs determinism-preserving bookkeeping.
const minChunk = 256

// JoinParallel splits the query rows into contiguous chunks and joins them
// concurrently against the joiner's shared read-only index, then
// reassembles the output in input order. With workers <= 1 it degrades to
// a plain sequential join. The result is identical to the sequential join
// row for row.
func JoinParallel(j *lifetable.Joiner, rows []table.Row, workers int) ([]table.Row, *lifetable.Stats, error) {
	if workers <= 1 || len(rows) <= minChunk {
		return j.JoinRows(rows, 0)
	}

	chunkSize := (len(rows) + workers - 1) / workers
	if chunkSize < minChunk {
		chunkSize = minChunk
	}

	type chunk struct {
		rows  []table.Row
		stats *lifetable.Stats
		err   error
	}

	nChunks := (len(rows) + chunkSize - 1) / chunkSize
	results := make([]chunk, nChunks)

	var wg sync.WaitGroup
	for c := 0; c < nChunks; c++ {
		start := c * chunkSize
		end := start + chunkSize
		if end > len(rows) {
			end = len(rows)
		}

		wg.Add(1)
		go func(c, start, end int) {
			defer wg.Done()
			out, stats, err := j.JoinRows(rows[start:end], start)
			results[c] = chunk{rows: out, stats: stats, err: err}
		}(c, start, end)
	}
	wg.Wait()

	merged := &lifetable.Stats{}
	var out []table.Row
	for _, r := range results {
		if r.err != nil {
			return nil, nil, r.err
		}
		out = append(out, r.rows...)
		merged.Add(r.stats)
	}
	return out, merged, nil
}
