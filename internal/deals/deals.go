// ABOUTME: Synthesizes fake sales pipeline deals for demo CRM data.
// ABOUTME: Samples company, workspaces, stage, timestamp, value and seats from static tables.

package deals

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2389/demoseed/internal/randutil"
	"github.com/2389/demoseed/internal/table"
)

// DefaultCount is the number of deals generated when no count is given.
const DefaultCount = 50

// TimestampLayout formats stage-change times as UTC instants.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Output columns in order.
const (
	ColRecordID       = "Record ID"
	ColRecord         = "Record"
	ColWorkspaces     = "Associated company > Associated workspaces"
	ColPeople         = "Associated people"
	ColStage          = "Deal stage"
	ColStageChangedAt = "Deal stage Changed At"
	ColPreviousStages = "Deal stage Previous Values"
	ColValue          = "Deal value"
	ColWorkspace      = "Workspace"
	ColOwner          = "Deal owner"
	ColOwnerEmail     = "Deal owner email"
	ColSeats          = "Seats"
)

// Columns returns the output header.
func Columns() []string {
	return []string{
		ColRecordID, ColRecord, ColWorkspaces, ColPeople, ColStage, ColStageChangedAt,
		ColPreviousStages, ColValue, ColWorkspace, ColOwner, ColOwnerEmail, ColSeats,
	}
}

// Deal is one synthesized pipeline opportunity. Value and Seats are nil when left blank.
type Deal struct {
	RecordID         string
	Record           string
	WorkspaceIDs     []string
	AssociatedPeople string
	Stage            string
	StageChangedAt   time.Time
	PreviousStages   []string
	Value            *float64
	Workspace        string
	Owner            Owner
	Seats            *int
}

// Row renders the deal in Columns() order.
func (d Deal) Row() []string {
	value := ""
	if d.Value != nil {
		value = strconv.FormatFloat(*d.Value, 'f', 2, 64)
	}
	seats := ""
	if d.Seats != nil {
		seats = strconv.Itoa(*d.Seats)
	}
	return []string{
		d.RecordID,
		d.Record,
		strings.Join(d.WorkspaceIDs, ","),
		d.AssociatedPeople,
		d.Stage,
		d.StageChangedAt.UTC().Format(TimestampLayout),
		strings.Join(d.PreviousStages, ", "),
		value,
		d.Workspace,
		d.Owner.Name,
		d.Owner.Email,
		seats,
	}
}

// Options tune the sampling rates and ranges.
type Options struct {
	Window             time.Duration // stage changes fall within [now-Window, now]
	MultiWorkspaceRate float64       // chance of associating several workspaces
	BlankRate          float64       // chance that value, and separately seats, are blank
	MinValue, MaxValue float64
	MinSeats, MaxSeats int
}

// DefaultOptions returns the standard sampling parameters.
func DefaultOptions() Options {
	return Options{
		Window:             90 * 24 * time.Hour,
		MultiWorkspaceRate: 0.3,
		BlankRate:          0.3,
		MinValue:           5000,
		MaxValue:           100000,
		MinSeats:           5,
		MaxSeats:           200,
	}
}

// Generator produces deals. Catalog, Owners and Resolver must be set;
// New fills in the rest.
type Generator struct {
	Catalog  []Company
	Owners   []Owner
	Resolver Resolver
	Rand     randutil.Rand
	Options  Options
	Now      func() time.Time
	NewID    func() (string, error)
}

// New creates a generator over the built-in catalog and owners.
func New(resolver Resolver, r randutil.Rand) *Generator {
	return &Generator{
		Catalog:  DefaultCatalog(),
		Owners:   DefaultOwners(),
		Resolver: resolver,
		Rand:     r,
		Options:  DefaultOptions(),
		Now:      time.Now,
		NewID:    newUUID,
	}
}

func newUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Generate returns k deals. It fails on the first workspace name the resolver does not know.
func (g *Generator) Generate(k int) ([]Deal, error) {
	if k < 0 {
		return nil, fmt.Errorf("deal count must not be negative, got %d", k)
	}
	if g.Options.Window < 0 {
		return nil, fmt.Errorf("window must not be negative, got %s", g.Options.Window)
	}
	if len(g.Catalog) == 0 || len(g.Owners) == 0 {
		return nil, fmt.Errorf("catalog and owners must not be empty")
	}

	now := g.Now()
	out := make([]Deal, 0, k)
	for i := 0; i < k; i++ {
		d, err := g.generateOne(now)
		if err != nil {
			return nil, fmt.Errorf("deal %d: %w", i+1, err)
		}
		out = append(out, d)
	}

	log.WithField("deals", len(out)).Debug("Generated deals")
	return out, nil
}

func (g *Generator) generateOne(now time.Time) (Deal, error) {
	r := g.Rand
	opts := g.Options

	// Inclusive of both ends, except at the maximum duration where now-Window is dropped.
	span := int64(opts.Window)
	if span < math.MaxInt64 {
		span++
	}
	changedAt := now.Add(-time.Duration(r.Int63n(span)))

	company := randutil.Choice(r, g.Catalog)
	primary := randutil.Choice(r, company.Workspaces)

	names := []string{primary}
	if randutil.Chance(r, opts.MultiWorkspaceRate) && len(company.Workspaces) > 1 {
		n := randutil.IntBetween(r, 2, len(company.Workspaces))
		names = randutil.Sample(r, company.Workspaces, n)
	}
	ids := make([]string, len(names))
	for i, name := range names {
		id, ok := g.Resolver.Resolve(name)
		if !ok {
			return Deal{}, unresolved(name, company.Name)
		}
		ids[i] = id
	}

	owner := g.Owners[0]

	var value *float64
	if !randutil.Chance(r, opts.BlankRate) {
		v := roundTo(randutil.Uniform(r, opts.MinValue, opts.MaxValue), 2)
		value = &v
	}

	var seats *int
	if !randutil.Chance(r, opts.BlankRate) {
		s := randutil.IntBetween(r, opts.MinSeats, opts.MaxSeats)
		seats = &s
	}

	id, err := g.NewID()
	if err != nil {
		return Deal{}, fmt.Errorf("record id: %w", err)
	}

	stageIdx := r.Intn(len(stages))

	return Deal{
		RecordID:         id,
		Record:           company.Name + " – inbound",
		WorkspaceIDs:     ids,
		AssociatedPeople: associatedPeople,
		Stage:            stages[stageIdx],
		StageChangedAt:   changedAt,
		PreviousStages:   append([]string(nil), stages[:stageIdx]...),
		Value:            value,
		Workspace:        primary,
		Owner:            owner,
		Seats:            seats,
	}, nil
}

// Table renders deals as a table with the standard header.
func Table(deals []Deal) *table.Table {
	t := table.New(Columns()...)
	for _, d := range deals {
		t.Rows = append(t.Rows, d.Row())
	}
	return t
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(v*p) / p
}
