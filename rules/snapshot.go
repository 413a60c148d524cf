/*
snapshot.go - Immutable rule snapshot

PURPOSE:
  A Snapshot is the one rule value the engine ever sees. Callers build it
  from raw (possibly legacy-labeled) rule rows, pass it into every
  calculation or batch call, and rebuild it from storage when rules
  change. There is no shared cache and no change notification: a "reload"
  is simply a new Snapshot.

CONSTRUCTION:
  BuildSnapshot validates and normalizes every row:
  - labels canonicalized (see normalize.go)
  - non-positive day counts and negative wages rejected
  - duplicate (city, type, stage) maternity rules rejected
  - duplicate city allowance rules rejected
  - formula variant resolved per city

  A bad row fails the whole build. Rule data is small and curated;
  loading half a rule set silently would be worse than failing loudly.
*/
package rules

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RAW ROWS - As loaded from storage or spreadsheets
// =============================================================================

// RawMaternityRule is an unnormalized maternity rule row.
type RawMaternityRule struct {
	ID           string
	City         string
	LeaveType    string
	Stage        string
	Days         int
	Extendable   bool
	HasAllowance bool
}

// RawAllowanceRule is an unnormalized allowance rule row.
type RawAllowanceRule struct {
	ID                      string
	City                    string
	SocialAverageWage       decimal.Decimal
	CompanyAverageWage      decimal.Decimal
	CompanyContributionWage decimal.Decimal
	CalculationBase         string
	PayoutMethod            string
	Notes                   string
}

// =============================================================================
// SNAPSHOT
// =============================================================================

type maternityKey struct {
	city  string
	typ   LeaveType
	stage MiscarriageStage
}

// Snapshot is an immutable, normalized rule bundle.
type Snapshot struct {
	maternity    map[string][]MaternityRule // city -> rules, resolution order preserved
	maternityIdx map[maternityKey]MaternityRule
	allowance    map[string]AllowanceRule
}

// BuildSnapshot normalizes and validates raw rows into a Snapshot.
func BuildSnapshot(maternity []RawMaternityRule, allowance []RawAllowanceRule) (*Snapshot, error) {
	s := &Snapshot{
		maternity:    make(map[string][]MaternityRule),
		maternityIdx: make(map[maternityKey]MaternityRule),
		allowance:    make(map[string]AllowanceRule),
	}

	for _, raw := range maternity {
		rule, err := normalizeMaternityRule(raw)
		if err != nil {
			return nil, err
		}
		key := maternityKey{city: rule.City, typ: rule.Type, stage: rule.Stage}
		if _, exists := s.maternityIdx[key]; exists {
			return nil, fmt.Errorf("%w: maternity rule (%s, %s, %s)",
				ErrDuplicateRule, rule.City, rule.Type, rule.Stage)
		}
		s.maternityIdx[key] = rule
		s.maternity[rule.City] = append(s.maternity[rule.City], rule)
	}

	for _, raw := range allowance {
		rule, err := normalizeAllowanceRule(raw)
		if err != nil {
			return nil, err
		}
		if _, exists := s.allowance[rule.City]; exists {
			return nil, fmt.Errorf("%w: allowance rule for city %s", ErrDuplicateRule, rule.City)
		}
		s.allowance[rule.City] = rule
	}

	return s, nil
}

// MaternityRules returns the maternity rules for a city.
// An unknown city returns an empty slice; the resolver degrades to its
// built-in fallback rather than erroring.
func (s *Snapshot) MaternityRules(city string) []MaternityRule {
	return s.maternity[NormalizeCity(city)]
}

// FindMaternityRule looks up one rule by (city, type, stage).
func (s *Snapshot) FindMaternityRule(city string, typ LeaveType, stage MiscarriageStage) (MaternityRule, bool) {
	rule, ok := s.maternityIdx[maternityKey{city: NormalizeCity(city), typ: typ, stage: stage}]
	return rule, ok
}

// AllowanceRule returns the allowance rule for a city.
func (s *Snapshot) AllowanceRule(city string) (AllowanceRule, error) {
	rule, ok := s.allowance[NormalizeCity(city)]
	if !ok {
		return AllowanceRule{}, &RuleNotFoundError{City: city}
	}
	return rule, nil
}

// HasCity reports whether the city has an allowance rule, which is the
// gate for running a calculation at all.
func (s *Snapshot) HasCity(city string) bool {
	_, ok := s.allowance[NormalizeCity(city)]
	return ok
}

// Cities returns every city with an allowance rule.
func (s *Snapshot) Cities() []string {
	cities := make([]string, 0, len(s.allowance))
	for city := range s.allowance {
		cities = append(cities, city)
	}
	return cities
}

// =============================================================================
// ROW NORMALIZATION
// =============================================================================

func normalizeMaternityRule(raw RawMaternityRule) (MaternityRule, error) {
	typ, err := NormalizeLeaveType(raw.LeaveType)
	if err != nil {
		return MaternityRule{}, err
	}
	stage := StageNone
	if typ == LeaveMiscarriage {
		stage, err = NormalizeStage(raw.Stage)
		if err != nil {
			return MaternityRule{}, err
		}
	}
	if raw.Days <= 0 {
		return MaternityRule{}, fmt.Errorf("%w: maternity rule (%s, %s) has non-positive days %d",
			ErrInvalidRule, raw.City, typ, raw.Days)
	}
	return MaternityRule{
		ID:           raw.ID,
		City:         NormalizeCity(raw.City),
		Type:         typ,
		Stage:        stage,
		Days:         raw.Days,
		Extendable:   raw.Extendable,
		HasAllowance: raw.HasAllowance,
	}, nil
}

func normalizeAllowanceRule(raw RawAllowanceRule) (AllowanceRule, error) {
	base, err := NormalizeCalculationBase(raw.CalculationBase)
	if err != nil {
		return AllowanceRule{}, err
	}
	payout, err := NormalizePayoutMethod(raw.PayoutMethod)
	if err != nil {
		return AllowanceRule{}, err
	}
	if raw.SocialAverageWage.IsNegative() || raw.CompanyAverageWage.IsNegative() ||
		raw.CompanyContributionWage.IsNegative() {
		return AllowanceRule{}, fmt.Errorf("%w: allowance rule for %s has a negative wage",
			ErrInvalidRule, raw.City)
	}
	city := NormalizeCity(raw.City)
	return AllowanceRule{
		ID:                      raw.ID,
		City:                    city,
		SocialAverageWage:       raw.SocialAverageWage,
		CompanyAverageWage:      raw.CompanyAverageWage,
		CompanyContributionWage: raw.CompanyContributionWage,
		Base:                    base,
		Payout:                  payout,
		Variant:                 VariantForCity(city),
		Notes:                   raw.Notes,
	}, nil
}
