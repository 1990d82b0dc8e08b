// Package grouping partitions extracted variable names into named fieldsets.
// The heuristic is deliberately simple: variables sharing a leading segment
// prefix cluster together, everything else lands in a fallback group. The
// output is a seed for operator review, so determinism matters more than
// cleverness — the same input and config always produce the same grouping.
package grouping

import (
	"strings"

	"github.com/goliatone/go-fieldsets/pkg/model"
	"github.com/goliatone/go-fieldsets/pkg/naming"
)

const (
	defaultMinPrefixSegments = 2
	defaultMinClusterSize    = 2
	defaultFallbackName      = "GENERAL"
)

// Preset pins variables to a named fieldset ahead of clustering. Presets come
// from operator-maintained config documents; members absent from the input
// are skipped, and a preset with no present members produces no fieldset.
type Preset struct {
	Name    string   `json:"name" yaml:"name"`
	Members []string `json:"members" yaml:"members"`
}

// Config holds the tunable grouping thresholds.
type Config struct {
	// MinPrefixSegments is the number of leading underscore-separated
	// segments two variables must share to cluster. A variable only joins a
	// cluster when the prefix is a proper prefix of its name.
	MinPrefixSegments int `json:"min_prefix_segments" yaml:"min_prefix_segments"`
	// MinClusterSize is the smallest cluster kept as its own fieldset.
	// Smaller clusters fold into the fallback group.
	MinClusterSize int `json:"min_cluster_size" yaml:"min_cluster_size"`
	// FallbackName names the catch-all fieldset.
	FallbackName string `json:"fallback_name" yaml:"fallback_name"`
	// Presets are applied before clustering, in document order.
	Presets []Preset `json:"presets,omitempty" yaml:"presets,omitempty"`
}

// DefaultConfig returns the thresholds used when nothing is configured:
// two-segment prefixes, clusters of at least two, fallback group GENERAL.
// Under these defaults a variable with no prefix sibling (PARTY_B_NAME next
// to PARTY_A_*) lands in GENERAL rather than a singleton PARTY_B fieldset.
func DefaultConfig() Config {
	return Config{
		MinPrefixSegments: defaultMinPrefixSegments,
		MinClusterSize:    defaultMinClusterSize,
		FallbackName:      defaultFallbackName,
	}
}

// Engine produces seed fieldset configurations from variable name lists.
type Engine struct {
	cfg Config
}

// New creates an Engine, filling unset config values with the defaults.
func New(cfg Config) *Engine {
	if cfg.MinPrefixSegments <= 0 {
		cfg.MinPrefixSegments = defaultMinPrefixSegments
	}
	if cfg.MinClusterSize <= 0 {
		cfg.MinClusterSize = defaultMinClusterSize
	}
	if strings.TrimSpace(cfg.FallbackName) == "" {
		cfg.FallbackName = defaultFallbackName
	} else {
		cfg.FallbackName = naming.Normalize(cfg.FallbackName)
	}
	return &Engine{cfg: cfg}
}

// Group partitions names into an ordered seed configuration. Every input name
// appears in exactly one fieldset; field order follows first appearance in
// the input, and fieldsets are ordered by the first appearance of their first
// member (presets first, in document order). An empty input yields an empty
// configuration.
func (e *Engine) Group(names []string) model.Configuration {
	if len(names) == 0 {
		return model.Configuration{}
	}

	remaining, presetSets := e.applyPresets(names)

	type cluster struct {
		name     string
		firstIdx int
		members  []string
	}

	clusterByKey := make(map[string]*cluster)
	var clusterOrder []*cluster
	fallback := &cluster{name: e.cfg.FallbackName, firstIdx: -1}

	for idx, name := range remaining {
		key, ok := e.prefixKey(name)
		if !ok {
			if fallback.firstIdx < 0 {
				fallback.firstIdx = idx
			}
			fallback.members = append(fallback.members, name)
			continue
		}
		c, exists := clusterByKey[key]
		if !exists {
			c = &cluster{name: key, firstIdx: idx}
			clusterByKey[key] = c
			clusterOrder = append(clusterOrder, c)
		}
		c.members = append(c.members, name)
	}

	// Sub-threshold clusters fold into the fallback group. Members keep
	// their input order, so the fallback list is rebuilt from scratch.
	var kept []*cluster
	demoted := make(map[string]struct{})
	for _, c := range clusterOrder {
		if len(c.members) >= e.cfg.MinClusterSize {
			kept = append(kept, c)
			continue
		}
		for _, member := range c.members {
			demoted[member] = struct{}{}
		}
	}
	if len(demoted) > 0 {
		merged := fallback.members[:0:0]
		fallback.firstIdx = -1
		for idx, name := range remaining {
			_, isDemoted := demoted[name]
			if !isDemoted && !containsString(fallback.members, name) {
				continue
			}
			if fallback.firstIdx < 0 {
				fallback.firstIdx = idx
			}
			merged = append(merged, name)
		}
		fallback.members = merged
	}

	ordered := kept
	if len(fallback.members) > 0 {
		inserted := false
		withFallback := make([]*cluster, 0, len(kept)+1)
		for _, c := range kept {
			if !inserted && fallback.firstIdx < c.firstIdx {
				withFallback = append(withFallback, fallback)
				inserted = true
			}
			withFallback = append(withFallback, c)
		}
		if !inserted {
			withFallback = append(withFallback, fallback)
		}
		ordered = withFallback
	}

	out := make(model.Configuration, 0, len(presetSets)+len(ordered))
	out = append(out, presetSets...)
	for _, c := range ordered {
		fs := model.Fieldset{Name: c.name, Fields: make([]model.Field, 0, len(c.members))}
		for _, member := range c.members {
			fs.Fields = append(fs.Fields, model.FieldFromVariable(member))
		}
		out = append(out, fs)
	}
	return out
}

// applyPresets claims preset members from the input list and returns the
// remaining names plus the preset fieldsets in document order.
func (e *Engine) applyPresets(names []string) ([]string, []model.Fieldset) {
	if len(e.cfg.Presets) == 0 {
		return names, nil
	}

	present := make(map[string]struct{}, len(names))
	for _, name := range names {
		present[name] = struct{}{}
	}

	claimed := make(map[string]struct{})
	var sets []model.Fieldset
	for _, preset := range e.cfg.Presets {
		fs := model.Fieldset{Name: naming.Normalize(preset.Name)}
		for _, member := range preset.Members {
			canonical := naming.Normalize(member)
			if _, ok := present[canonical]; !ok {
				continue
			}
			if _, taken := claimed[canonical]; taken {
				continue
			}
			claimed[canonical] = struct{}{}
			fs.Fields = append(fs.Fields, model.FieldFromVariable(canonical))
		}
		if len(fs.Fields) > 0 {
			sets = append(sets, fs)
		}
	}

	if len(claimed) == 0 {
		return names, sets
	}
	remaining := make([]string, 0, len(names)-len(claimed))
	for _, name := range names {
		if _, taken := claimed[name]; taken {
			continue
		}
		remaining = append(remaining, name)
	}
	return remaining, sets
}

// prefixKey returns the cluster key for a name, or false when the name has
// too few segments for the prefix to be a proper prefix.
func (e *Engine) prefixKey(name string) (string, bool) {
	segments := strings.Split(name, "_")
	if len(segments) <= e.cfg.MinPrefixSegments {
		return "", false
	}
	return strings.Join(segments[:e.cfg.MinPrefixSegments], "_"), true
}

func containsString(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
