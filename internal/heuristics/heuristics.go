// Package heuristics holds the fixed lookup tables that drive skill
// classification, role inference and job-level resolution. The tables are
// data: the defaults are embedded and a replacement file can be loaded at
// startup.
package heuristics

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

//go:embed heuristics.yaml
var defaultTables []byte

// keyDelimiter replaces viper's "." so keys such as "node.js" stay flat.
const keyDelimiter = "::"

// JobLevel lists the synonyms of one canonical job-level category.
type JobLevel struct {
	Category string   `mapstructure:"category"`
	Terms    []string `mapstructure:"terms"`
}

// Maps is the immutable set of heuristic tables. Callers must not modify it
// after Load returns.
type Maps struct {
	Version    string              `mapstructure:"version"`
	SoftSkills []string            `mapstructure:"soft-skills"`
	Supersets  map[string][]string `mapstructure:"supersets"`
	RoleSkills map[string][]string `mapstructure:"role-skills"`
	JobLevels  []JobLevel          `mapstructure:"job-levels"`
	RoleLevels map[string][]string `mapstructure:"role-levels"`

	supersetKeys  []string
	roleSkillKeys []string
	roleLevelKeys []string
}

// Default returns the embedded tables.
func Default() (*Maps, error) {
	return parse(defaultTables, "embedded")
}

// MustDefault is Default for package-level initialisation and tests.
func MustDefault() *Maps {
	m, err := Default()
	if err != nil {
		panic(err)
	}
	return m
}

// Load reads tables from path. An empty path returns the embedded defaults.
func Load(path string) (*Maps, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default()
	}

	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading heuristics file %q: %w", path, err)
	}

	return decode(v, path)
}

func parse(data []byte, source string) (*Maps, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("parsing %s heuristics: %w", source, err)
	}
	return decode(v, source)
}

func decode(v *viper.Viper, source string) (*Maps, error) {
	var m Maps
	if err := v.Unmarshal(&m); err != nil {
		return nil, fmt.Errorf("decoding %s heuristics: %w", source, err)
	}

	m.normalize()
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s heuristics: %w", source, err)
	}

	return &m, nil
}

// Validate checks that the tables can drive the pipeline.
func (m *Maps) Validate() error {
	if len(m.JobLevels) == 0 {
		return errors.New("job-levels must not be empty")
	}

	seen := make(map[string]bool, len(m.JobLevels))
	for i, level := range m.JobLevels {
		if level.Category == "" {
			return fmt.Errorf("job-levels[%d]: category is required", i)
		}
		if seen[level.Category] {
			return fmt.Errorf("job-levels[%d]: duplicate category %q", i, level.Category)
		}
		seen[level.Category] = true
		if len(level.Terms) == 0 {
			return fmt.Errorf("job-levels[%d]: category %q has no terms", i, level.Category)
		}
	}

	for role, levels := range m.RoleLevels {
		for _, level := range levels {
			if !seen[level] {
				return fmt.Errorf("role-levels: role %q refers to unknown category %q", role, level)
			}
		}
	}

	return nil
}

// Terms returns the synonyms of category, or nil when it is unknown.
func (m *Maps) Terms(category string) []string {
	for _, level := range m.JobLevels {
		if level.Category == category {
			return level.Terms
		}
	}
	return nil
}

// SupersetKeys returns the superset keys in sorted order.
func (m *Maps) SupersetKeys() []string { return m.supersetKeys }

// RoleSkillKeys returns the role-skill keys in sorted order.
func (m *Maps) RoleSkillKeys() []string { return m.roleSkillKeys }

// RoleLevelKeys returns the role-level keys in sorted order.
func (m *Maps) RoleLevelKeys() []string { return m.roleLevelKeys }

// RolesForCategory returns the roles whose levels include category.
func (m *Maps) RolesForCategory(category string) []string {
	var roles []string
	for _, role := range m.roleLevelKeys {
		if slices.Contains(m.RoleLevels[role], category) {
			roles = append(roles, role)
		}
	}
	return roles
}

func (m *Maps) normalize() {
	m.Version = strings.TrimSpace(m.Version)
	m.SoftSkills = lowerAll(m.SoftSkills)
	m.Supersets = lowerMap(m.Supersets)
	m.RoleSkills = lowerMap(m.RoleSkills)
	m.RoleLevels = lowerMap(m.RoleLevels)

	for i := range m.JobLevels {
		m.JobLevels[i].Category = strings.ToLower(strings.TrimSpace(m.JobLevels[i].Category))
		m.JobLevels[i].Terms = lowerAll(m.JobLevels[i].Terms)
	}

	m.supersetKeys = sortedKeys(m.Supersets)
	m.roleSkillKeys = sortedKeys(m.RoleSkills)
	m.roleLevelKeys = sortedKeys(m.RoleLevels)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func lowerMap(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for key, values := range in {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		out[key] = append(out[key], lowerAll(values)...)
	}
	return out
}

func sortedKeys(in map[string][]string) []string {
	keys := make([]string, 0, len(in))
	for key := range in {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
