package Scheduling

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
)

type Op string

const (
	OpAll         Op = "all"
	OpAny         Op = "any"
	OpNot         Op = "not"
	OpFlag        Op = "flag"
	OpEnum        Op = "enum"
	OpBuiltBefore Op = "built_before"
)

// FeatureSet is what a requirement is evaluated against.
// Models.HomeFeatures implements it.
type FeatureSet interface {
	Flag(name string) (bool, bool)
	Value(name string) (string, bool)
	BuiltYear() int
}

// Requirement is the activation predicate of a template, a small expression
// tree. A nil *Requirement always matches.
//
//	{"op":"all","children":[{"op":"flag","feature":"has_hvac"},{"op":"flag","feature":"no_central_hvac","value":false}]}
type Requirement struct {
	Op       Op            `json:"op"`
	Feature  string        `json:"feature,omitempty"`
	Value    *bool         `json:"value,omitempty"`
	Values   []string      `json:"values,omitempty"`
	Year     int           `json:"year,omitempty"`
	Children []Requirement `json:"children,omitempty"`
}

// FeatureAliases maps legacy catalog spellings to canonical feature names.
var FeatureAliases = map[string]string{
	"has_disposal":         "has_garbage_disposal",
	"has_washer":           "has_washer_dryer",
	"has_smoke_dectectors": "has_smoke_detectors",
	"has_outdoor":          "has_yard",
	"has_deck":             "has_deck_patio",
}

// FlagFeatures lists the boolean features a requirement may test.
var FlagFeatures = map[string]bool{
	"has_hvac": true, "has_gutters": true, "has_dishwasher": true,
	"has_smoke_detectors": true, "has_water_heater": true, "has_water_softener": true,
	"has_garbage_disposal": true, "has_washer_dryer": true, "has_sump_pump": true,
	"has_well": true, "has_fireplace": true, "has_septic": true, "has_garage": true,
	"has_window_units": true, "has_radiator_boiler": true, "no_central_hvac": true,
	"has_refrigerator_ice": true, "has_range_hood": true, "has_deck_patio": true,
	"has_pool_hot_tub": true, "freezes": true, "has_pets": true, "pet_dog": true,
	"pet_cat": true, "pet_other": true, "travel_often": true, "has_yard": true,
	"has_carpet": true,
}

// EnumFeatures lists the enumerated features and their accepted values.
var EnumFeatures = map[string][]string{
	"home_type":      {"house", "townhouse", "condo", "apartment", "mobile"},
	"home_size":      {"small", "medium", "large"},
	"carpet":         {"yes", "some", "no"},
	"fireplace_type": {"none", "wood", "gas", "electric"},
	"garage_type":    {"none", "attached", "detached"},
}

func CanonicalFeature(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := FeatureAliases[name]; ok {
		return alias
	}
	return name
}

func Flag(feature string, want bool) Requirement {
	return Requirement{Op: OpFlag, Feature: feature, Value: &want}
}

func All(children ...Requirement) Requirement {
	return Requirement{Op: OpAll, Children: children}
}

func Any(children ...Requirement) Requirement {
	return Requirement{Op: OpAny, Children: children}
}

// Matches reports whether the requirement holds for f. Unknown features
// never match.
func (r *Requirement) Matches(f FeatureSet) bool {
	if r == nil {
		return true
	}
	switch r.Op {
	case OpAll:
		for i := range r.Children {
			if !r.Children[i].Matches(f) {
				return false
			}
		}
		return true
	case OpAny:
		for i := range r.Children {
			if r.Children[i].Matches(f) {
				return true
			}
		}
		return false
	case OpNot:
		if len(r.Children) != 1 {
			return false
		}
		return !r.Children[0].Matches(f)
	case OpFlag:
		got, ok := f.Flag(CanonicalFeature(r.Feature))
		if !ok {
			return false
		}
		want := true
		if r.Value != nil {
			want = *r.Value
		}
		return got == want
	case OpEnum:
		got, ok := f.Value(CanonicalFeature(r.Feature))
		if !ok {
			return false
		}
		for _, v := range r.Values {
			if strings.EqualFold(v, got) {
				return true
			}
		}
		return false
	case OpBuiltBefore:
		year := f.BuiltYear()
		return year > 0 && year < r.Year
	}
	return false
}

// Validate checks the tree for unknown operators and features.
func (r *Requirement) Validate() error {
	if r == nil {
		return nil
	}
	switch r.Op {
	case OpAll, OpAny:
		for i := range r.Children {
			if err := r.Children[i].Validate(); err != nil {
				return err
			}
		}
	case OpNot:
		if len(r.Children) != 1 {
			return fmt.Errorf("not requires exactly one child, got %d", len(r.Children))
		}
		return r.Children[0].Validate()
	case OpFlag:
		if !FlagFeatures[CanonicalFeature(r.Feature)] {
			return fmt.Errorf("unknown feature flag %q", r.Feature)
		}
	case OpEnum:
		allowed, ok := EnumFeatures[CanonicalFeature(r.Feature)]
		if !ok {
			return fmt.Errorf("unknown enum feature %q", r.Feature)
		}
		if len(r.Values) == 0 {
			return fmt.Errorf("enum %q needs at least one value", r.Feature)
		}
		for _, v := range r.Values {
			if !slices.Contains(allowed, strings.ToLower(v)) {
				return fmt.Errorf("invalid value %q for %s", v, r.Feature)
			}
		}
	case OpBuiltBefore:
		if r.Year <= 0 {
			return fmt.Errorf("built_before requires a positive year")
		}
	default:
		return fmt.Errorf("unknown requirement op %q", r.Op)
	}
	return nil
}

// DecodeRequirement reads a requirement from its stored JSON form.
// Empty or null input yields nil.
func DecodeRequirement(raw datatypes.JSON) (*Requirement, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil, nil
	}
	var r Requirement
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode feature requirement: %w", err)
	}
	return &r, nil
}

func EncodeRequirement(r *Requirement) (datatypes.JSON, error) {
	if r == nil {
		return nil, nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// ParseRequirementList parses the flat "key=bool;key=bool" form used by
// catalog spreadsheets into an all-of requirement. Unknown keys are ignored,
// malformed pairs are reported.
func ParseRequirementList(s string) (*Requirement, []string) {
	var errs []string
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var children []Requirement
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			errs = append(errs, fmt.Sprintf("invalid requirement '%s' (expected key=value)", part))
			continue
		}
		key = CanonicalFeature(key)
		if !FlagFeatures[key] {
			continue
		}
		b, ok := ParseBool(value)
		if !ok {
			errs = append(errs, fmt.Sprintf("invalid boolean for '%s' -> '%s'", key, strings.TrimSpace(value)))
			continue
		}
		children = append(children, Flag(key, b))
	}
	if len(children) == 0 {
		return nil, errs
	}
	slices.SortStableFunc(children, func(a, b Requirement) int { return strings.Compare(a.Feature, b.Feature) })
	r := All(children...)
	return &r, errs
}

// ParseBool accepts true/false, 1/0, yes/no and y/n.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		return true, true
	case "false", "0", "no", "n":
		return false, true
	}
	return false, false
}
