package configloader

import "github.com/yaklabco/tagtok/pkg/config"

// merge layers override on top of base and returns a new Config:
//   - strings and ints replace when non-zero;
//   - *bool fields replace when non-nil, so false can be set explicitly;
//   - slices replace entirely when non-nil (an empty list clears).
//
// Strict is a CLI switch and can only be turned on.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Fields != nil {
		result.Fields = override.Fields
	}
	if override.IgnoreTags != nil {
		result.IgnoreTags = override.IgnoreTags
	}
	if override.NoSplitTags != nil {
		result.NoSplitTags = override.NoSplitTags
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}
	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}

	if override.Entities != "" {
		result.Entities = override.Entities
	}
	if override.Stemmer != "" {
		result.Stemmer = override.Stemmer
	}
	if override.StemLanguage != "" {
		result.StemLanguage = override.StemLanguage
	}

	mergeBool(&result.Normalize.Lowercase, override.Normalize.Lowercase)
	mergeBool(&result.Normalize.StripApostrophes, override.Normalize.StripApostrophes)
	mergeBool(&result.Normalize.FoldAccents, override.Normalize.FoldAccents)

	mergeBool(&result.Pool.Enabled, override.Pool.Enabled)
	if override.Pool.MaxActive != 0 {
		result.Pool.MaxActive = override.Pool.MaxActive
	}

	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Strict {
		result.Strict = true
	}

	return result
}

func mergeBool(dst **bool, override *bool) {
	if override != nil {
		v := *override
		*dst = &v
	}
}

// MergeAll merges configurations in order; later ones win.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}
	result := configs[0]
	for _, next := range configs[1:] {
		result = merge(result, next)
	}
	return result
}
