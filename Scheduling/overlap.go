package Scheduling

import (
	"math"

	"HomeList/Models"
)

// ResolveOverlaps keeps one template per overlap group: the one with the
// lowest variant rank. Rank 0 means unranked and loses to any ranked
// variant. Ties keep the earlier template. Ungrouped templates pass through
// and input order is preserved.
func ResolveOverlaps(templates []Models.TaskTemplate) []Models.TaskTemplate {
	winner := map[string]int{}
	for i, t := range templates {
		if t.OverlapGroup == "" {
			continue
		}
		cur, ok := winner[t.OverlapGroup]
		if !ok || rank(t) < rank(templates[cur]) {
			winner[t.OverlapGroup] = i
		}
	}

	out := make([]Models.TaskTemplate, 0, len(templates))
	for i, t := range templates {
		if t.OverlapGroup != "" && winner[t.OverlapGroup] != i {
			continue
		}
		out = append(out, t)
	}
	return out
}

func rank(t Models.TaskTemplate) int {
	if t.VariantRank <= 0 {
		return math.MaxInt
	}
	return t.VariantRank
}
