package Scheduling

import (
	"testing"

	"HomeList/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestRequirementMatches(t *testing.T) {
	home := Models.HomeFeatures{
		HasHVAC:       true,
		HasGutters:    true,
		FireplaceType: "wood",
		Carpet:        "some",
		YearBuilt:     1975,
		PetCat:        true,
	}

	tests := []struct {
		name string
		req  *Requirement
		want bool
	}{
		{"nil always matches", nil, true},
		{"flag true", ptr(Flag("has_hvac", true)), true},
		{"flag false", ptr(Flag("has_hvac", false)), false},
		{"flag defaults to true", &Requirement{Op: OpFlag, Feature: "has_gutters"}, true},
		{"missing feature", ptr(Flag("has_pool_hot_tub", true)), false},
		{"unknown feature", ptr(Flag("has_moat", true)), false},
		{"alias", ptr(Flag("has_outdoor", false)), true},
		{"derived fireplace", ptr(Flag("has_fireplace", true)), true},
		{"derived carpet", ptr(Flag("has_carpet", true)), true},
		{"derived pets", ptr(Flag("has_pets", true)), true},
		{"all", ptr(All(Flag("has_hvac", true), Flag("has_gutters", true))), true},
		{"all fails", ptr(All(Flag("has_hvac", true), Flag("has_septic", true))), false},
		{"empty all", ptr(All()), true},
		{"any", ptr(Any(Flag("has_septic", true), Flag("has_gutters", true))), true},
		{"empty any", ptr(Any()), false},
		{"not", &Requirement{Op: OpNot, Children: []Requirement{Flag("has_septic", true)}}, true},
		{"enum", &Requirement{Op: OpEnum, Feature: "fireplace_type", Values: []string{"gas", "Wood"}}, true},
		{"enum miss", &Requirement{Op: OpEnum, Feature: "fireplace_type", Values: []string{"gas"}}, false},
		{"built before", &Requirement{Op: OpBuiltBefore, Year: 1980}, true},
		{"built after", &Requirement{Op: OpBuiltBefore, Year: 1970}, false},
		{"unknown op", &Requirement{Op: "xor"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.Matches(home))
		})
	}
}

func TestBuiltBeforeUnknownYear(t *testing.T) {
	r := &Requirement{Op: OpBuiltBefore, Year: 2000}
	assert.False(t, r.Matches(Models.HomeFeatures{}))
}

func TestRequirementValidate(t *testing.T) {
	assert.NoError(t, ptr(All(Flag("has_deck", true), Flag("freezes", false))).Validate())
	assert.Error(t, ptr(Flag("has_moat", true)).Validate())
	assert.Error(t, (&Requirement{Op: OpEnum, Feature: "garage_type", Values: []string{"carport"}}).Validate())
	assert.Error(t, (&Requirement{Op: OpEnum, Feature: "garage_type"}).Validate())
	assert.Error(t, (&Requirement{Op: OpNot}).Validate())
	assert.Error(t, (&Requirement{Op: OpBuiltBefore}).Validate())
	assert.Error(t, (&Requirement{Op: "maybe"}).Validate())
}

func TestRequirementRoundTripThroughColumn(t *testing.T) {
	original := All(Flag("has_hvac", true), Any(Flag("pet_dog", true), Flag("pet_cat", true)))
	raw, err := EncodeRequirement(&original)
	require.NoError(t, err)

	decoded, err := DecodeRequirement(raw)
	require.NoError(t, err)
	assert.True(t, decoded.Matches(Models.HomeFeatures{HasHVAC: true, PetCat: true}))
	assert.False(t, decoded.Matches(Models.HomeFeatures{HasHVAC: true}))
}

func TestDecodeRequirementEmpty(t *testing.T) {
	for _, raw := range []string{"", "null", "  "} {
		r, err := DecodeRequirement(datatypes.JSON(raw))
		require.NoError(t, err)
		assert.Nil(t, r)
	}
	_, err := DecodeRequirement(datatypes.JSON("{nope"))
	assert.Error(t, err)
}

func TestParseRequirementList(t *testing.T) {
	r, errs := ParseRequirementList("has_disposal=yes; has_moat=true ; freezes=0")
	assert.Empty(t, errs)
	require.NotNil(t, r)
	require.Len(t, r.Children, 2)
	assert.Equal(t, "freezes", r.Children[0].Feature)
	assert.False(t, *r.Children[0].Value)
	assert.Equal(t, "has_garbage_disposal", r.Children[1].Feature)

	r, errs = ParseRequirementList("has_hvac;has_gutters=perhaps")
	assert.Nil(t, r)
	assert.Len(t, errs, 2)

	r, errs = ParseRequirementList("")
	assert.Nil(t, r)
	assert.Empty(t, errs)
}

func ptr(r Requirement) *Requirement { return &r }
