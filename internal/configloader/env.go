package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/tagtok/pkg/config"
)

// envVarPrefix prefixes every environment override.
const envVarPrefix = "TAGTOK_"

type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

type envMapping struct {
	typ         envFieldType
	description string
	apply       func(cfg *config.Config, v envValue)
}

// envValue carries the parsed value for whichever type the mapping wants.
type envValue struct {
	s     string
	b     bool
	i     int
	slice []string
}

// envMappings maps variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FIELDS": {envTypeSlice, "Comma-separated field patterns",
		func(c *config.Config, v envValue) { c.Fields = v.slice }},
	"IGNORE_TAGS": {envTypeSlice, "Comma-separated tags whose content is skipped",
		func(c *config.Config, v envValue) { c.IgnoreTags = v.slice }},
	"NO_SPLIT_TAGS": {envTypeSlice, "Comma-separated tags kept as one term",
		func(c *config.Config, v envValue) { c.NoSplitTags = v.slice }},
	"ENTITIES": {envTypeString, "Entity table: basic or html5",
		func(c *config.Config, v envValue) { c.Entities = v.s }},
	"LOWERCASE": {envTypeBool, "Lowercase terms: true or false",
		func(c *config.Config, v envValue) { c.Normalize.Lowercase = config.Bool(v.b) }},
	"STRIP_APOSTROPHES": {envTypeBool, "Remove apostrophes from terms: true or false",
		func(c *config.Config, v envValue) { c.Normalize.StripApostrophes = config.Bool(v.b) }},
	"FOLD_ACCENTS": {envTypeBool, "Remove accents from terms: true or false",
		func(c *config.Config, v envValue) { c.Normalize.FoldAccents = config.Bool(v.b) }},
	"STEMMER": {envTypeString, "Stemmer: none, snowball or porter2",
		func(c *config.Config, v envValue) { c.Stemmer = v.s }},
	"STEM_LANGUAGE": {envTypeString, "Snowball language",
		func(c *config.Config, v envValue) { c.StemLanguage = v.s }},
	"POOL_ENABLED": {envTypeBool, "Share term strings across documents: true or false",
		func(c *config.Config, v envValue) { c.Pool.Enabled = config.Bool(v.b) }},
	"POOL_MAX_ACTIVE": {envTypeInt, "String pool ceiling before it is cleared",
		func(c *config.Config, v envValue) { c.Pool.MaxActive = v.i }},
	"IGNORE": {envTypeSlice, "Comma-separated file ignore globs",
		func(c *config.Config, v envValue) { c.Ignore = v.slice }},
	"EXTENSIONS": {envTypeSlice, "Comma-separated file extensions",
		func(c *config.Config, v envValue) { c.Extensions = v.slice }},
	"FORMAT": {envTypeString, "Output format: text, json, yaml, table or summary",
		func(c *config.Config, v envValue) { c.Format = config.OutputFormat(v.s) }},
	"JOBS": {envTypeInt, "Number of parallel workers (0 = auto)",
		func(c *config.Config, v envValue) { c.Jobs = v.i }},
}

// LoadFromEnv applies TAGTOK_* overrides to cfg.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for suffix, mapping := range envMappings {
		envVar := envVarPrefix + suffix
		raw, ok := os.LookupEnv(envVar)
		if !ok || raw == "" {
			continue
		}

		value, err := parseEnvValue(mapping.typ, raw, envVar)
		if err != nil {
			return err
		}
		mapping.apply(cfg, value)
	}

	return nil
}

func parseEnvValue(typ envFieldType, raw, envVar string) (envValue, error) {
	switch typ {
	case envTypeString:
		return envValue{s: raw}, nil
	case envTypeBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return envValue{}, fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, raw)
		}
		return envValue{b: b}, nil
	case envTypeInt:
		i, err := strconv.Atoi(raw)
		if err != nil {
			return envValue{}, fmt.Errorf("invalid integer for %s: %q", envVar, raw)
		}
		return envValue{i: i}, nil
	case envTypeSlice:
		return envValue{slice: parseSliceValue(raw)}, nil
	default:
		return envValue{}, fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue splits a comma-separated list, trimming blanks.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// EnvVar is one supported environment variable.
type EnvVar struct {
	Name        string
	Description string
}

// ListEnvVars returns the supported variables sorted by name.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, 0, len(envMappings))
	for suffix, mapping := range envMappings {
		vars = append(vars, EnvVar{Name: envVarPrefix + suffix, Description: mapping.description})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}
