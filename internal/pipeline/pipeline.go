package pipeline

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/gojiplus/lostyears/internal/lifetable"
	"github.com/gojiplus/lostyears/internal/model"
	"github.com/gojiplus/lostyears/internal/source"
	"github.com/gojiplus/lostyears/internal/table"
	"github.com/gojiplus/lostyears/internal/validate"
	"github.com/gojiplus/lostyears/internal/worker"
)

// Pipeline orchestrates the complete append run: load the reference index
// once per source, validate the query table up front, join, and write
// output. Built indexes are memoized — the index is the reusable unit, not
// individual match results.
type Pipeline struct {
	cfg      *model.Config
	registry *source.Registry

	mu      sync.Mutex
	indexes map[string]*lifetable.Index
}

// NewPipeline creates a pipeline with the given configuration.
func NewPipeline(cfg *model.Config) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		registry: source.NewRegistry(),
		indexes:  make(map[string]*lifetable.Index),
	}
}

// Source looks up a registered source by name.
func (p *Pipeline) Source(name string) (source.Source, error) {
	src, ok := p.registry.ByName(name)
	if !ok {
		return source.Source{}, fmt.Errorf("unknown data source %q", name)
	}
	return src, nil
}

// Index returns the built reference index for a source, loading and
// building it on first use. The returned index is immutable and shared.
func (p *Pipeline) Index(src source.Source) (*lifetable.Index, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if idx, ok := p.indexes[src.Name()]; ok {
		return idx, nil
	}

	path := filepath.Join(p.cfg.Data.Dir, filepath.FromSlash(src.DataFile))
	raw, err := table.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s reference data: %w", src.Name(), err)
	}

	rows, err := src.Load(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s reference data: %w", src.Name(), err)
	}

	idx, err := lifetable.Build(src.Spec, rows)
	if err != nil {
		return nil, fmt.Errorf("build %s index: %w", src.Name(), err)
	}

	p.indexes[src.Name()] = idx
	return idx, nil
}

// Append validates the query table, joins it against the source's
// reference index, and returns the expanded table plus run statistics.
// Validation failures abort the whole batch before any matching runs.
func (p *Pipeline) Append(src source.Source, t *table.Table, mapping table.Mapping) (*table.Table, *lifetable.Stats, error) {
	if err := validate.NewValidator(src.Spec, mapping).ValidateTable(t); err != nil {
		return nil, nil, err
	}

	idx, err := p.Index(src)
	if err != nil {
		return nil, nil, err
	}

	joiner := lifetable.NewJoiner(idx, mapping, lifetable.Policy(p.cfg.Join.Unmatched))

	rows, stats, err := worker.JoinParallel(joiner, t.Rows, p.cfg.Join.Concurrency)
	if err != nil {
		return nil, nil, err
	}

	return joiner.Assemble(t.Columns, rows), stats, nil
}

// Policy reports the unmatched-row policy in effect for a source after
// applying the configured override.
func (p *Pipeline) Policy(src source.Source) lifetable.Policy {
	if p.cfg.Join.Unmatched != "" {
		return lifetable.Policy(p.cfg.Join.Unmatched)
	}
	return src.Spec.Unmatched
}

// ProcessFile runs the full file-to-file append for one source.
func (p *Pipeline) ProcessFile(src source.Source, inputPath, outputPath string, mapping table.Mapping) (*model.Report, error) {
	in, err := table.ReadFile(inputPath)
	if err != nil {
		return nil, err
	}

	out, stats, err := p.Append(src, in, mapping)
	if err != nil {
		return nil, err
	}

	if err := out.WriteFile(outputPath); err != nil {
		return nil, err
	}

	return &model.Report{
		Source:      src.Name(),
		Input:       inputPath,
		Output:      outputPath,
		GeneratedAt: time.Now().UTC(),
		Stats:       *stats,
		Policy:      string(p.Policy(src)),
	}, nil
}
