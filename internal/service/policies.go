package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/coverdesk/internal/counter"
	"github.com/mesh-intelligence/coverdesk/internal/observability"
	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

// DefaultRate is the base yearly increase used for quotes when none is
// given.
const DefaultRate = 0.03

// HomeInput holds the fields of a new home policy.
type HomeInput struct {
	HolderID         string
	Premium          float64
	AreaSqm          int
	ContentsValue    float64
	Address          string
	ConstructionYear int
}

// AutoInput holds the fields of a new auto policy.
type AutoInput struct {
	HolderID           string
	Premium            float64
	Description        string
	FuelType           string
	Vehicle            types.VehicleType
	Coverage           types.Coverage
	RoadsideAssistance bool
	ClaimCount         int
}

// LifeInput holds the fields of a new life policy.
type LifeInput struct {
	HolderID     string
	Premium      float64
	BirthDate    time.Time
	Risk         types.RiskLevel
	PayoutAmount float64
}

// Policies contracts, lists and cancels policies.
type Policies struct {
	repo     types.PolicyRepository
	registry *counter.Registry
	log      *observability.Logger
	now      func() time.Time
}

// NewPolicies returns a Policies service. Ids come from registry, which
// must already reflect the ids stored in repo.
func NewPolicies(repo types.PolicyRepository, registry *counter.Registry, log *observability.Logger) *Policies {
	return &Policies{repo: repo, registry: registry, log: log, now: time.Now}
}

// SetClock replaces the time source used for validation and quotes.
func (s *Policies) SetClock(now func() time.Time) { s.now = now }

// ContractHome validates in and stores a new home policy.
func (s *Policies) ContractHome(in HomeInput) (types.HomePolicy, error) {
	in.HolderID = NormalizeHolderID(in.HolderID)
	in.Address = strings.TrimSpace(in.Address)
	if err := firstErr(
		CheckHolderID(in.HolderID),
		CheckPositive("premium", in.Premium),
		CheckPositive("area", float64(in.AreaSqm)),
		CheckPositive("contents value", in.ContentsValue),
		CheckText("address", in.Address),
		CheckConstructionYear(in.ConstructionYear, s.now()),
	); err != nil {
		return types.HomePolicy{}, err
	}

	base, err := s.base(types.VariantHome, in.HolderID, in.Premium)
	if err != nil {
		return types.HomePolicy{}, err
	}
	p := types.HomePolicy{
		PolicyBase:       base,
		AreaSqm:          in.AreaSqm,
		ContentsValue:    in.ContentsValue,
		Address:          in.Address,
		ConstructionYear: in.ConstructionYear,
	}
	return p, s.store(p)
}

// ContractAuto validates in and stores a new auto policy.
func (s *Policies) ContractAuto(in AutoInput) (types.AutoPolicy, error) {
	in.HolderID = NormalizeHolderID(in.HolderID)
	in.Description = strings.TrimSpace(in.Description)
	in.FuelType = strings.TrimSpace(in.FuelType)
	vehicle, verr := types.ParseVehicleType(string(in.Vehicle))
	coverage, cerr := types.ParseCoverage(string(in.Coverage))
	if err := firstErr(
		CheckHolderID(in.HolderID),
		CheckPositive("premium", in.Premium),
		CheckText("description", in.Description),
		CheckText("fuel type", in.FuelType),
		verr,
		cerr,
		CheckClaimCount(in.ClaimCount),
	); err != nil {
		return types.AutoPolicy{}, err
	}

	base, err := s.base(types.VariantAuto, in.HolderID, in.Premium)
	if err != nil {
		return types.AutoPolicy{}, err
	}
	p := types.AutoPolicy{
		PolicyBase:         base,
		Description:        in.Description,
		FuelType:           in.FuelType,
		Vehicle:            vehicle,
		Coverage:           coverage,
		RoadsideAssistance: in.RoadsideAssistance,
		ClaimCount:         in.ClaimCount,
	}
	return p, s.store(p)
}

// ContractLife validates in and stores a new life policy.
func (s *Policies) ContractLife(in LifeInput) (types.LifePolicy, error) {
	in.HolderID = NormalizeHolderID(in.HolderID)
	in.BirthDate = dateOnly(in.BirthDate)
	risk, rerr := types.ParseRiskLevel(string(in.Risk))
	if err := firstErr(
		CheckHolderID(in.HolderID),
		CheckPositive("premium", in.Premium),
		CheckBirthDate(in.BirthDate, s.now()),
		rerr,
		CheckPositive("payout amount", in.PayoutAmount),
	); err != nil {
		return types.LifePolicy{}, err
	}

	base, err := s.base(types.VariantLife, in.HolderID, in.Premium)
	if err != nil {
		return types.LifePolicy{}, err
	}
	p := types.LifePolicy{
		PolicyBase:   base,
		BirthDate:    in.BirthDate,
		Risk:         risk,
		PayoutAmount: in.PayoutAmount,
	}
	return p, s.store(p)
}

func (s *Policies) base(v types.Variant, holder string, premium float64) (types.PolicyBase, error) {
	id, err := s.registry.Next(v)
	if err != nil {
		return types.PolicyBase{}, err
	}
	return types.PolicyBase{ID: id, HolderID: holder, Premium: premium}, nil
}

// store persists p. A failed store leaves a gap in the id sequence.
func (s *Policies) store(p types.Policy) error {
	if err := s.repo.Add(p); err != nil {
		return err
	}
	s.log.Mutation("contract", p.Variant().Name(), p.Base().ID)
	return nil
}

// Remove cancels the policy with the given id.
func (s *Policies) Remove(id int) error {
	if err := s.repo.Remove(id); err != nil {
		return err
	}
	s.log.Mutation("remove", "policy", id)
	return nil
}

// Find returns the policy with the given id.
func (s *Policies) Find(id int) (types.Policy, bool) { return s.repo.Find(id) }

// All returns every policy.
func (s *Policies) All() []types.Policy { return s.repo.All() }

// ByVariant returns the policies of variant v.
func (s *Policies) ByVariant(v types.Variant) []types.Policy { return s.repo.ByVariant(v) }

// Quote returns the next-year premium of the policy at the given base rate.
func (s *Policies) Quote(id int, rate float64) (float64, error) {
	p, ok := s.repo.Find(id)
	if !ok {
		return 0, fmt.Errorf("policy %d: %w", id, types.ErrNotFound)
	}
	if rate < 0 {
		return 0, fmt.Errorf("rate %v is negative: %w", rate, types.ErrInvalidInput)
	}
	return types.NextYearPremium(p, rate, s.now()), nil
}
