package config

import "fmt"

// Merge combines two configs where overlay takes precedence over base:
//   - version: must agree if both declare it (non-zero)
//   - defaults: field by field, set overlay values win
//   - jobs: merged by name; an overlay job replaces the base job entirely
func Merge(base, overlay *Config) (*Config, error) {
	if base == nil {
		return overlay, nil
	}
	if overlay == nil {
		return base, nil
	}

	result := &Config{}
	if err := mergeVersion(base.Version, overlay.Version, &result.Version); err != nil {
		return nil, err
	}
	result.Defaults = mergeDefaults(base.Defaults, overlay.Defaults)
	result.Jobs = mergeJobs(base.Jobs, overlay.Jobs)
	return result, nil
}

// MergeAll merges multiple configs in order (lowest precedence first).
func MergeAll(configs []*Config) (*Config, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("no configs to merge")
	}

	result := configs[0]
	for _, c := range configs[1:] {
		var err error
		result, err = Merge(result, c)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func mergeVersion(base, overlay int, out *int) error {
	switch {
	case base == 0:
		*out = overlay
	case overlay == 0, base == overlay:
		*out = base
	default:
		return fmt.Errorf("config version mismatch: one layer declares version %d, another declares version %d", base, overlay)
	}
	return nil
}

func mergeDefaults(base, overlay Defaults) Defaults {
	out := base
	if overlay.Backup != nil {
		out.Backup = overlay.Backup
	}
	if overlay.Comments != nil {
		out.Comments = overlay.Comments
	}
	if overlay.Binary != nil {
		out.Binary = overlay.Binary
	}
	if overlay.Encoding != "" {
		out.Encoding = overlay.Encoding
	}
	return out
}

func mergeJobs(base, overlay []Job) []Job {
	if len(base) == 0 {
		return overlay
	}
	if len(overlay) == 0 {
		return base
	}

	overlayNames := make(map[string]bool, len(overlay))
	for _, j := range overlay {
		overlayNames[j.Name] = true
	}

	var result []Job
	for _, j := range base {
		if !overlayNames[j.Name] {
			result = append(result, j)
		}
	}
	return append(result, overlay...)
}
