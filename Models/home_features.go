package Models

import (
	"strings"
	"time"
)

// HomeFeatures describes the home a user maintains. One row per user,
// created by the first questionnaire submission.
type HomeFeatures struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex"`

	// Home basics
	HomeType   string `json:"home_type" form:"home_type" gorm:"size:32"`
	YearBuilt  int    `json:"year_built" form:"year_built"`
	HomeSize   string `json:"home_size" form:"home_size" gorm:"size:32"`
	Address    string `json:"address" form:"address"`
	SquareFeet int    `json:"square_feet" form:"square_feet"`
	Beds       int    `json:"beds" form:"beds"`
	Baths      string `json:"baths" form:"baths" gorm:"size:8"`
	BannerPath string `json:"banner_path" gorm:"size:512"`
	HasYard    bool   `json:"has_yard" form:"has_yard"`
	Carpet     string `json:"carpet" form:"carpet" gorm:"size:8"` // yes, some, no

	// Systems
	HasHVAC           bool   `json:"has_hvac" form:"has_hvac"`
	HasWindowUnits    bool   `json:"has_window_units" form:"has_window_units"`
	HasRadiatorBoiler bool   `json:"has_radiator_boiler" form:"has_radiator_boiler"`
	NoCentralHVAC     bool   `json:"no_central_hvac" form:"no_central_hvac"`
	HasWaterHeater    bool   `json:"has_water_heater" form:"has_water_heater"`
	HasWaterSoftener  bool   `json:"has_water_softener" form:"has_water_softener"`
	HasWell           bool   `json:"has_well" form:"has_well"`
	HasSeptic         bool   `json:"has_septic" form:"has_septic"`
	HasSumpPump       bool   `json:"has_sump_pump" form:"has_sump_pump"`
	HasSmokeDetectors bool   `json:"has_smoke_detectors" form:"has_smoke_detectors"`
	FireplaceType     string `json:"fireplace_type" form:"fireplace_type" gorm:"size:16"` // none, wood, gas, electric

	// Appliances
	HasDishwasher      bool `json:"has_dishwasher" form:"has_dishwasher"`
	HasGarbageDisposal bool `json:"has_garbage_disposal" form:"has_garbage_disposal"`
	HasWasherDryer     bool `json:"has_washer_dryer" form:"has_washer_dryer"`
	HasRefrigeratorIce bool `json:"has_refrigerator_ice" form:"has_refrigerator_ice"`
	HasRangeHood       bool `json:"has_range_hood" form:"has_range_hood"`

	// Exterior
	HasGutters    bool   `json:"has_gutters" form:"has_gutters"`
	GarageType    string `json:"garage_type" form:"garage_type" gorm:"size:16"` // none, attached, detached
	HasDeckPatio  bool   `json:"has_deck_patio" form:"has_deck_patio"`
	HasPoolHotTub bool   `json:"has_pool_hot_tub" form:"has_pool_hot_tub"`

	// Climate and lifestyle
	Freezes     bool `json:"freezes" form:"freezes"`
	HasPets     bool `json:"has_pets" form:"has_pets"`
	PetDog      bool `json:"pet_dog" form:"pet_dog"`
	PetCat      bool `json:"pet_cat" form:"pet_cat"`
	PetOther    bool `json:"pet_other" form:"pet_other"`
	TravelOften bool `json:"travel_often" form:"travel_often"`

	// Baseline checkup state
	BaselineDismissed   bool       `json:"baseline_checkup_dismissed"`
	BaselineLastChecked *time.Time `json:"baseline_last_checked"`
}

func (HomeFeatures) TableName() string { return "home_features" }

// Flag reports the boolean value of a named feature. The second result is
// false when the name is not a known boolean feature.
func (h HomeFeatures) Flag(name string) (bool, bool) {
	switch name {
	case "has_yard":
		return h.HasYard, true
	case "has_carpet":
		return h.Carpet == "yes" || h.Carpet == "some", true
	case "has_hvac":
		return h.HasHVAC, true
	case "has_window_units":
		return h.HasWindowUnits, true
	case "has_radiator_boiler":
		return h.HasRadiatorBoiler, true
	case "no_central_hvac":
		return h.NoCentralHVAC, true
	case "has_water_heater":
		return h.HasWaterHeater, true
	case "has_water_softener":
		return h.HasWaterSoftener, true
	case "has_well":
		return h.HasWell, true
	case "has_septic":
		return h.HasSeptic, true
	case "has_sump_pump":
		return h.HasSumpPump, true
	case "has_smoke_detectors":
		return h.HasSmokeDetectors, true
	case "has_fireplace":
		return present(h.FireplaceType), true
	case "has_dishwasher":
		return h.HasDishwasher, true
	case "has_garbage_disposal":
		return h.HasGarbageDisposal, true
	case "has_washer_dryer":
		return h.HasWasherDryer, true
	case "has_refrigerator_ice":
		return h.HasRefrigeratorIce, true
	case "has_range_hood":
		return h.HasRangeHood, true
	case "has_gutters":
		return h.HasGutters, true
	case "has_garage":
		return present(h.GarageType), true
	case "has_deck_patio":
		return h.HasDeckPatio, true
	case "has_pool_hot_tub":
		return h.HasPoolHotTub, true
	case "freezes":
		return h.Freezes, true
	case "has_pets":
		return h.HasPets || h.PetDog || h.PetCat || h.PetOther, true
	case "pet_dog":
		return h.PetDog, true
	case "pet_cat":
		return h.PetCat, true
	case "pet_other":
		return h.PetOther, true
	case "travel_often":
		return h.TravelOften, true
	}
	return false, false
}

// Value returns the value of an enumerated feature such as fireplace_type.
func (h HomeFeatures) Value(name string) (string, bool) {
	switch name {
	case "home_type":
		return h.HomeType, true
	case "home_size":
		return h.HomeSize, true
	case "carpet":
		return h.Carpet, true
	case "fireplace_type":
		return h.FireplaceType, true
	case "garage_type":
		return h.GarageType, true
	}
	return "", false
}

func (h HomeFeatures) BuiltYear() int { return h.YearBuilt }

func present(v string) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	return v != "" && v != "none" && v != "no"
}
