package Scheduling

import (
	"fmt"

	"HomeList/Models"
)

// SelectTemplates returns the active templates whose requirement holds for
// the given features, with overlap groups resolved. Templates whose stored
// requirement cannot be decoded are skipped and reported.
func SelectTemplates(templates []Models.TaskTemplate, features FeatureSet) ([]Models.TaskTemplate, []error) {
	var (
		matched []Models.TaskTemplate
		errs    []error
	)
	for _, tpl := range templates {
		if !tpl.Active {
			continue
		}
		req, err := DecodeRequirement(tpl.FeatureRequirement)
		if err != nil {
			errs = append(errs, fmt.Errorf("template %s: %w", tpl.Key, err))
			continue
		}
		if req.Matches(features) {
			matched = append(matched, tpl)
		}
	}
	return ResolveOverlaps(matched), errs
}
