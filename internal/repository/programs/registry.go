// Package programs keeps the loan program catalog in memory.
package programs

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"lending_docs/internal/models"
)

//go:embed programs.yaml
var defaultCatalog []byte

var ErrProgramNotFound = errors.New("loan program not found")

type catalogFile struct {
	Programs []models.LoanProgram `yaml:"programs"`
}

// Registry is safe for concurrent use; the importer writes while handlers read.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]models.LoanProgram
}

func NewRegistry(programs ...models.LoanProgram) *Registry {
	r := &Registry{byID: make(map[string]models.LoanProgram, len(programs))}
	for _, p := range programs {
		r.byID[p.ID] = p
	}
	return r
}

// Default builds a registry from the embedded catalog.
func Default() (*Registry, error) {
	list, err := Decode(bytes.NewReader(defaultCatalog))
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return NewRegistry(list...), nil
}

func Decode(r io.Reader) ([]models.LoanProgram, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(f.Programs))
	for i, p := range f.Programs {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, fmt.Errorf("program #%d: empty id", i)
		}
		if seen[id] {
			return nil, fmt.Errorf("program %q: duplicate id", id)
		}
		seen[id] = true
		f.Programs[i].ID = id
	}
	return f.Programs, nil
}

func LoadFile(path string) ([]models.LoanProgram, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	list, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

func (r *Registry) Lookup(id string) (models.LoanProgram, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	return p, ok
}

func (r *Registry) Get(id string) (models.LoanProgram, error) {
	if p, ok := r.Lookup(id); ok {
		return p, nil
	}
	return models.LoanProgram{}, fmt.Errorf("%w: %q", ErrProgramNotFound, id)
}

func (r *Registry) Put(p models.LoanProgram) {
	r.mu.Lock()
	r.byID[p.ID] = p
	r.mu.Unlock()
}

func (r *Registry) Merge(list []models.LoanProgram) {
	r.mu.Lock()
	for _, p := range list {
		r.byID[p.ID] = p
	}
	r.mu.Unlock()
}

// All returns the catalog sorted by id.
func (r *Registry) All() []models.LoanProgram {
	r.mu.RLock()
	out := make([]models.LoanProgram, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
