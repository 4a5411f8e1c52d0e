package compare

import (
	"slices"
	"strings"

	"github.com/promptdeck/promptdeck/internal/model"
)

// ChangeKind states how a config entry differs between two snapshots.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeModified ChangeKind = "modified"
)

// ConfigDiff summarizes configuration drift between the earliest and latest
// run. It is purely structural and never consults metric values: it answers
// "what did the user change", not "what moved".
type ConfigDiff struct {
	ProviderModel    ProviderModelDiff `json:"providerModel"`
	PromptChanges    []PromptChange    `json:"promptChanges"`
	DatasetRows      DatasetRowsDiff   `json:"datasetRows"`
	AssertionChanges []AssertionChange `json:"assertionChanges"`
}

// ProviderModelDiff flags a change in the configured provider list.
// Before/After hold the primary (first) provider identifier.
type ProviderModelDiff struct {
	Changed bool   `json:"changed"`
	Before  string `json:"before,omitempty"`
	After   string `json:"after,omitempty"`
}

// PromptChange is one prompt whose text differs between the two snapshots.
// An added or removed prompt leaves the missing side empty.
type PromptChange struct {
	Index  int    `json:"index"`
	Label  string `json:"label,omitempty"`
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

// DatasetRowsDiff flags a change in the dataset's shape.
type DatasetRowsDiff struct {
	Changed        bool `json:"changed"`
	BeforeRows     int  `json:"beforeRows"`
	AfterRows      int  `json:"afterRows"`
	HeadersChanged bool `json:"headersChanged"`
}

// AssertionChange is one assertion added, removed, or modified between the
// two snapshots. Assertions are matched by position.
type AssertionChange struct {
	Kind   ChangeKind       `json:"kind"`
	Index  int              `json:"index"`
	Before *model.Assertion `json:"before,omitempty"`
	After  *model.Assertion `json:"after,omitempty"`
}

func diffConfig(first, last model.ProjectSnapshot) ConfigDiff {
	return ConfigDiff{
		ProviderModel:    diffProviders(first.Providers, last.Providers),
		PromptChanges:    diffPrompts(first.Prompts, last.Prompts),
		DatasetRows:      diffDataset(first.Dataset, last.Dataset),
		AssertionChanges: diffAssertions(first.Assertions, last.Assertions),
	}
}

func diffProviders(before, after []model.ProviderConfig) ProviderModelDiff {
	d := ProviderModelDiff{
		Before: primaryProvider(before),
		After:  primaryProvider(after),
	}
	d.Changed = providerKey(before) != providerKey(after)
	return d
}

func primaryProvider(providers []model.ProviderConfig) string {
	if len(providers) == 0 {
		return ""
	}
	return providers[0].ProviderID
}

// providerKey joins the ordered provider identifiers so that reordering,
// adding, or swapping providers all register as a change.
func providerKey(providers []model.ProviderConfig) string {
	ids := make([]string, len(providers))
	for i, p := range providers {
		ids[i] = p.ProviderID
	}
	return strings.Join(ids, "\x1f")
}

// diffPrompts matches prompts by id when one is set, falling back to
// position, and reports every pair whose text differs. Prompts present on
// only one side are reported with the missing side empty.
func diffPrompts(before, after []model.Prompt) []PromptChange {
	changes := []PromptChange{}

	afterByID := make(map[string]int, len(after))
	for i, p := range after {
		if p.ID != "" {
			afterByID[p.ID] = i
		}
	}

	matched := make([]bool, len(after))
	for i, b := range before {
		j := -1
		if b.ID != "" {
			if idx, ok := afterByID[b.ID]; ok {
				j = idx
			}
		} else if i < len(after) && after[i].ID == "" {
			j = i
		}

		if j < 0 {
			changes = append(changes, PromptChange{Index: i, Label: b.Label, Before: b.Text})
			continue
		}
		matched[j] = true
		if b.Text != after[j].Text {
			changes = append(changes, PromptChange{
				Index:  i,
				Label:  labelOr(after[j].Label, b.Label),
				Before: b.Text,
				After:  after[j].Text,
			})
		}
	}

	for j, a := range after {
		if !matched[j] && (a.ID != "" || j >= len(before)) {
			changes = append(changes, PromptChange{Index: j, Label: a.Label, After: a.Text})
		}
	}
	return changes
}

func labelOr(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	return fallback
}

func diffDataset(before, after model.Dataset) DatasetRowsDiff {
	d := DatasetRowsDiff{
		BeforeRows:     len(before.Rows),
		AfterRows:      len(after.Rows),
		HeadersChanged: !slices.Equal(before.Headers, after.Headers),
	}
	d.Changed = d.BeforeRows != d.AfterRows || d.HeadersChanged
	return d
}

func diffAssertions(before, after []model.Assertion) []AssertionChange {
	changes := []AssertionChange{}
	n := max(len(before), len(after))
	for i := 0; i < n; i++ {
		switch {
		case i >= len(before):
			a := after[i]
			changes = append(changes, AssertionChange{Kind: ChangeAdded, Index: i, After: &a})
		case i >= len(after):
			b := before[i]
			changes = append(changes, AssertionChange{Kind: ChangeRemoved, Index: i, Before: &b})
		case before[i] != after[i]:
			b, a := before[i], after[i]
			changes = append(changes, AssertionChange{Kind: ChangeModified, Index: i, Before: &b, After: &a})
		}
	}
	return changes
}
