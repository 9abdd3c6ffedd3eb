// ABOUTME: Enriches a table with marketing attribution (UTM) columns.
// ABOUTME: Each cell is drawn independently and uniformly from a fixed per-parameter vocabulary.

package utm

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/2389/demoseed/internal/randutil"
	"github.com/2389/demoseed/internal/table"
)

// Parameter names in output column order.
var Parameters = []string{"source", "medium", "campaign", "content", "term"}

// Vocabulary maps a UTM parameter to the tokens it may take.
type Vocabulary map[string][]string

var defaultVocabulary = Vocabulary{
	"source": {
		"google",
		"linkedin",
		"producthunt",
		"techcrunch",
		"twitter",
		"reddit",
		"ycombinator",
		"saaster",
		"blog",
		"podcast",
	},
	"medium": {
		"cpc",
		"social",
		"organic",
		"referral",
		"email",
		"content",
		"community",
	},
	"campaign": {
		"launch",
		"competitor_alternative",
		"crm_guide",
		"startup_tools",
		"product_demo",
		"migration_guide",
		"summer_promo",
		"series_a",
	},
	"content": {
		"demo_video",
		"comparison_table",
		"case_study",
		"webinar",
		"ebook",
		"infographic",
		"founder_story",
	},
	"term": {
		"crm_alternative",
		"sales_workspace",
		"deal_tracking",
		"startup_crm",
		"attio_vs",
		"modern_crm",
		"workspace_tools",
	},
}

// DefaultVocabulary returns a copy of the built-in vocabulary.
func DefaultVocabulary() Vocabulary {
	v := make(Vocabulary, len(defaultVocabulary))
	for param, tokens := range defaultVocabulary {
		v[param] = append([]string(nil), tokens...)
	}
	return v
}

// ColumnName returns the output column for a parameter, e.g. "utm_source".
func ColumnName(param string) string {
	return "utm_" + param
}

// Enrich sets one column per parameter on every row of t. Existing columns
// with the same name are overwritten in place; all other cells are untouched.
func Enrich(t *table.Table, vocab Vocabulary, r randutil.Rand) error {
	for _, param := range Parameters {
		if len(vocab[param]) == 0 {
			return fmt.Errorf("vocabulary for %q is empty", param)
		}
	}

	for _, param := range Parameters {
		tokens := vocab[param]
		values := make([]string, t.Len())
		for i := range values {
			values[i] = randutil.Choice(r, tokens)
		}
		if err := t.SetColumn(ColumnName(param), values); err != nil {
			return err
		}
	}

	log.WithField("rows", t.Len()).Debug("Added UTM columns")
	return nil
}

// EnrichFile reads input, enriches it and writes output. The input file is not modified.
func EnrichFile(input, output string, vocab Vocabulary, r randutil.Rand) (*table.Table, error) {
	t, err := table.ReadFile(input)
	if err != nil {
		return nil, err
	}
	if err := Enrich(t, vocab, r); err != nil {
		return nil, err
	}
	if err := t.WriteFile(output); err != nil {
		return nil, err
	}
	return t, nil
}
