package source

import (
	"github.com/gojiplus/lostyears/internal/lifetable"
	"github.com/gojiplus/lostyears/internal/table"
)

// Source bundles one reference dataset: its declarative matching spec, the
// data file it ships in, and the loader that turns the raw table into typed
// reference rows. All matching behavior is declared on SourceSpec; loaders
// only parse and clean.
type Source struct {
	Spec *lifetable.SourceSpec

	// DataFile is the reference data path relative to the data directory.
	DataFile string

	// Load converts a loaded raw table into reference rows, normalizing
	// category codes and skipping rows the source publishes incomplete.
	Load func(t *table.Table) ([]lifetable.ReferenceRow, error)
}

// Name returns the source's short name (ssa, hld, who).
func (s Source) Name() string { return s.Spec.Name }

// Registry manages the known data sources.
type Registry struct {
	sources []Source
}

// NewRegistry creates a registry with the built-in sources registered.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(SSA())
	r.Register(HLD())
	r.Register(WHO())
	return r
}

// Register adds a source to the registry.
func (r *Registry) Register(s Source) {
	r.sources = append(r.sources, s)
}

// ByName finds a source by its short name.
func (r *Registry) ByName(name string) (Source, bool) {
	for _, s := range r.sources {
		if s.Spec.Name == name {
			return s, true
		}
	}
	return Source{}, false
}

// All returns every registered source.
func (r *Registry) All() []Source {
	return r.sources
}

// mfCodes are the accepted input spellings for the M/F code set shared by
// the SSA and HLD specs. HLD publishes sex as 1/2, hence the numeric forms.
func mfCodes() map[string]string {
	return map[string]string{
		"m": "M", "male": "M", "1": "M",
		"f": "F", "female": "F", "2": "F",
	}
}
