// ABOUTME: Workspace display name to workspace ID lookup used to fill deal associations.
// ABOUTME: Loaded once from a CSV with name and workspace_id columns; later duplicates win.

package deals

import (
	"io"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	apperrors "github.com/2389/demoseed/internal/errors"
	"github.com/2389/demoseed/internal/table"
)

// Lookup file columns.
const (
	LookupNameColumn = "name"
	LookupIDColumn   = "workspace_id"
)

// Resolver maps a workspace display name to its workspace ID.
type Resolver interface {
	Resolve(name string) (string, bool)
}

// Lookup is an in-memory Resolver.
type Lookup map[string]string

// Resolve implements Resolver.
func (l Lookup) Resolve(name string) (string, bool) {
	id, ok := l[name]
	return id, ok
}

// LookupFromTable builds a Lookup from a table with name and workspace_id columns.
func LookupFromTable(t *table.Table) (Lookup, error) {
	if err := t.Require(LookupNameColumn, LookupIDColumn); err != nil {
		return nil, err
	}

	l := make(Lookup, t.Len())
	for i := range t.Rows {
		name := t.Get(i, LookupNameColumn)
		id := t.Get(i, LookupIDColumn)
		if prev, ok := l[name]; ok && prev != id {
			log.WithFields(log.Fields{"name": name, "previous": prev, "workspace_id": id}).
				Warn("Duplicate workspace name in lookup, later entry wins")
		}
		l[name] = id
	}
	return l, nil
}

// ReadLookup parses a lookup CSV from r.
func ReadLookup(r io.Reader) (Lookup, error) {
	t, err := table.Read(r)
	if err != nil {
		return nil, err
	}
	return LookupFromTable(t)
}

// LoadLookup reads a lookup CSV from path.
func LoadLookup(path string) (Lookup, error) {
	t, err := table.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LookupFromTable(t)
}

// ValidateCatalog checks that every workspace in catalog resolves and
// reports all unresolved names at once.
func ValidateCatalog(catalog []Company, resolver Resolver) error {
	var result *multierror.Error
	for _, c := range catalog {
		for _, ws := range c.Workspaces {
			if _, ok := resolver.Resolve(ws); !ok {
				result = multierror.Append(result, unresolved(ws, c.Name))
			}
		}
	}
	return result.ErrorOrNil()
}

func unresolved(workspace, company string) error {
	return apperrors.New(apperrors.ErrUnresolvedWorkspace, "workspace for "+company+" not found in lookup").
		WithField(workspace)
}
