package types

import (
	"fmt"
	"strings"
	"time"
)

// Variant is the discriminator tag of a policy variant. The tag is written as
// the last field of every serialized policy line.
type Variant string

// Policy variants.
const (
	VariantHome Variant = "SeguroHogar"
	VariantAuto Variant = "SeguroAuto"
	VariantLife Variant = "SeguroVida"
)

// Variants lists every policy variant.
var Variants = []Variant{VariantHome, VariantAuto, VariantLife}

// variantNames holds the short names used on the command line.
var variantNames = map[Variant]string{
	VariantHome: "home",
	VariantAuto: "auto",
	VariantLife: "life",
}

// Name returns the short lower-case name of the variant ("home", "auto",
// "life").
func (v Variant) Name() string {
	if n, ok := variantNames[v]; ok {
		return n
	}
	return string(v)
}

// ParseVariant accepts either a discriminator tag or a short name.
func ParseVariant(s string) (Variant, error) {
	s = strings.TrimSpace(s)
	for v, name := range variantNames {
		if strings.EqualFold(s, name) || s == string(v) {
			return v, nil
		}
	}
	return "", fmt.Errorf("variant %q: %w", s, ErrUnknownVariant)
}

// DateLayout is the dd/MM/yyyy pattern used for dates in files and prompts.
const DateLayout = "02/01/2006"

// Policy id bases. Ids of a variant are assigned from base+1 upwards, so the
// variant of a policy can be told from its id alone.
const (
	HomeIDBase = 100000
	AutoIDBase = 400000
	LifeIDBase = 800000
)

// IDBase returns the id base of v, or 0 for an unknown variant.
func IDBase(v Variant) int {
	switch v {
	case VariantHome:
		return HomeIDBase
	case VariantAuto:
		return AutoIDBase
	case VariantLife:
		return LifeIDBase
	default:
		return 0
	}
}

// IDInRange reports whether id lies in the range of v: above its base and
// below the base of the next variant. Life ids have no upper bound.
func IDInRange(v Variant, id int) bool {
	switch v {
	case VariantHome:
		return id > HomeIDBase && id < AutoIDBase
	case VariantAuto:
		return id > AutoIDBase && id < LifeIDBase
	case VariantLife:
		return id > LifeIDBase
	default:
		return false
	}
}

// PolicyBase carries the fields shared by every policy variant.
type PolicyBase struct {
	ID       int     `json:"id"`
	HolderID string  `json:"holder_id"`
	Premium  float64 `json:"premium"`
}

// Base returns the shared fields.
func (b PolicyBase) Base() PolicyBase { return b }

func (PolicyBase) policy() {}

// Policy is the closed set {HomePolicy, AutoPolicy, LifePolicy}. Code that
// needs variant-specific behaviour switches on the concrete type.
type Policy interface {
	Base() PolicyBase
	Variant() Variant
	policy()
}

// HomePolicy insures a dwelling and its contents.
type HomePolicy struct {
	PolicyBase
	AreaSqm          int     `json:"area_sqm"`
	ContentsValue    float64 `json:"contents_value"`
	Address          string  `json:"address"`
	ConstructionYear int     `json:"construction_year"`
}

// Variant implements Policy.
func (HomePolicy) Variant() Variant { return VariantHome }

// AutoPolicy insures a vehicle.
type AutoPolicy struct {
	PolicyBase
	Description        string      `json:"description"`
	FuelType           string      `json:"fuel_type"`
	Vehicle            VehicleType `json:"vehicle"`
	Coverage           Coverage    `json:"coverage"`
	RoadsideAssistance bool        `json:"roadside_assistance"`
	ClaimCount         int         `json:"claim_count"`
}

// Variant implements Policy.
func (AutoPolicy) Variant() Variant { return VariantAuto }

// LifePolicy pays PayoutAmount on the holder's death.
type LifePolicy struct {
	PolicyBase
	BirthDate    time.Time `json:"birth_date"`
	Risk         RiskLevel `json:"risk"`
	PayoutAmount float64   `json:"payout_amount"`
}

// Variant implements Policy.
func (LifePolicy) Variant() Variant { return VariantLife }

// Premium adjustment constants.
const (
	homeAgeCycleYears    = 5
	homeAgeCycleIncrease = 0.02
	autoClaimIncreasePct = 2
	lifeYearIncrease     = 0.0005
)

// NextYearPremium quotes the premium for the coming year at the given base
// interest rate (0.03 means 3%). Each variant adds its own surcharge:
// home by building age, auto by declared claims, life by holder age and risk.
func NextYearPremium(p Policy, rate float64, now time.Time) float64 {
	switch v := p.(type) {
	case HomePolicy:
		age := now.Year() - v.ConstructionYear
		increase := float64(age/homeAgeCycleYears) * homeAgeCycleIncrease
		return v.Premium * (1 + rate + increase)
	case AutoPolicy:
		increase := float64(autoClaimIncreasePct*v.ClaimCount) / 100
		return v.Premium * (1 + rate + increase)
	case LifePolicy:
		increase := float64(AgeAt(v.BirthDate, now))*lifeYearIncrease + v.Risk.Rate()/100
		return v.Premium * (1 + rate + increase)
	default:
		return p.Base().Premium * (1 + rate)
	}
}

// AgeAt returns the number of whole years between birth and now.
func AgeAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// Describe renders a one-line human summary of a policy.
func Describe(p Policy) string {
	b := p.Base()
	head := fmt.Sprintf("%s #%d holder=%s premium=%.2f", p.Variant().Name(), b.ID, b.HolderID, b.Premium)
	switch v := p.(type) {
	case HomePolicy:
		return fmt.Sprintf("%s area=%dm2 contents=%.2f address=%q built=%d",
			head, v.AreaSqm, v.ContentsValue, v.Address, v.ConstructionYear)
	case AutoPolicy:
		return fmt.Sprintf("%s vehicle=%s coverage=%q fuel=%s roadside=%t claims=%d description=%q",
			head, v.Vehicle, v.Coverage.Description(), v.FuelType, v.RoadsideAssistance, v.ClaimCount, v.Description)
	case LifePolicy:
		return fmt.Sprintf("%s born=%s risk=%s payout=%.2f",
			head, v.BirthDate.Format(DateLayout), v.Risk, v.PayoutAmount)
	default:
		return head
	}
}
