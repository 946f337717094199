// Package codec converts users and policies to and from the delimited
// single-line text form stored in the backing files.
//
// A policy line is its fields in a fixed, variant-specific order followed by
// the variant discriminator:
//
//	100001;12345678Z;350.5;90;20000;Calle Mayor 1;1998;SeguroHogar
//
// A user line has no discriminator:
//
//	admin;$2a$10$...;ADMIN
//
// Fields are not escaped. Free-text values containing the delimiter or a line
// break are rejected by Encode with types.ErrDelimiterInField.
package codec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

// Delimiter separates fields within a line.
const Delimiter = ";"

// PolicyDecoder builds a policy from the fields of a split line with the
// discriminator already removed.
type PolicyDecoder func(fields []string) (types.Policy, error)

// Field counts per record, without the discriminator.
const (
	userFields = 3
	homeFields = 7
	autoFields = 9
	lifeFields = 6
)

// PolicyDecoders returns the default discriminator-to-decoder table used by
// the initial loader.
func PolicyDecoders() map[types.Variant]PolicyDecoder {
	return map[types.Variant]PolicyDecoder{
		types.VariantHome: DecodeHome,
		types.VariantAuto: DecodeAuto,
		types.VariantLife: DecodeLife,
	}
}

// Split breaks a line into its fields.
func Split(line string) []string {
	return strings.Split(line, Delimiter)
}

// SplitTagged splits a policy line and separates the trailing discriminator.
func SplitTagged(line string) (fields []string, tag types.Variant) {
	parts := Split(line)
	last := len(parts) - 1
	return parts[:last], types.Variant(strings.TrimSpace(parts[last]))
}

// EncodeUser renders a user as name;credential;role.
func EncodeUser(u types.User) (string, error) {
	if err := checkText(u.Name, u.Credential, string(u.Role)); err != nil {
		return "", fmt.Errorf("user %q: %w", u.Name, err)
	}
	return join(u.Name, u.Credential, string(u.Role)), nil
}

// DecodeUser parses the fields of a user line.
func DecodeUser(fields []string) (types.User, error) {
	if len(fields) != userFields {
		return types.User{}, fieldCount("user", userFields, len(fields))
	}
	if fields[0] == "" {
		return types.User{}, fmt.Errorf("user: empty name: %w", types.ErrMalformedRecord)
	}
	role, err := types.ParseRole(fields[2])
	if err != nil {
		return types.User{}, malformed("user role", err)
	}
	return types.User{Name: fields[0], Credential: fields[1], Role: role}, nil
}

// Encode renders a policy line terminated by its discriminator.
func Encode(p types.Policy) (string, error) {
	var fields []string
	switch v := p.(type) {
	case types.HomePolicy:
		if err := checkText(v.HolderID, v.Address); err != nil {
			return "", fmt.Errorf("policy %d: %w", v.ID, err)
		}
		fields = append(baseFields(v.PolicyBase),
			strconv.Itoa(v.AreaSqm),
			formatFloat(v.ContentsValue),
			v.Address,
			strconv.Itoa(v.ConstructionYear))
	case types.AutoPolicy:
		if err := checkText(v.HolderID, v.Description, v.FuelType); err != nil {
			return "", fmt.Errorf("policy %d: %w", v.ID, err)
		}
		fields = append(baseFields(v.PolicyBase),
			v.Description,
			v.FuelType,
			string(v.Vehicle),
			string(v.Coverage),
			strconv.FormatBool(v.RoadsideAssistance),
			strconv.Itoa(v.ClaimCount))
	case types.LifePolicy:
		if err := checkText(v.HolderID); err != nil {
			return "", fmt.Errorf("policy %d: %w", v.ID, err)
		}
		fields = append(baseFields(v.PolicyBase),
			v.BirthDate.Format(types.DateLayout),
			string(v.Risk),
			formatFloat(v.PayoutAmount))
	default:
		return "", fmt.Errorf("encode %T: %w", p, types.ErrUnknownVariant)
	}
	return join(append(fields, string(p.Variant()))...), nil
}

// Decode parses the fields of a policy line of the given variant.
func Decode(fields []string, variant types.Variant) (types.Policy, error) {
	dec, ok := PolicyDecoders()[variant]
	if !ok {
		return nil, fmt.Errorf("decode %q: %w", variant, types.ErrUnknownVariant)
	}
	return dec(fields)
}

// DecodeHome parses a home policy.
func DecodeHome(fields []string) (types.Policy, error) {
	if len(fields) != homeFields {
		return nil, fieldCount("home policy", homeFields, len(fields))
	}
	p := fieldParser{fields: fields}
	pol := types.HomePolicy{
		PolicyBase:       p.base(),
		AreaSqm:          p.integer(3, "area"),
		ContentsValue:    p.decimal(4, "contents value"),
		Address:          fields[5],
		ConstructionYear: p.integer(6, "construction year"),
	}
	if p.err != nil {
		return nil, p.err
	}
	return pol, nil
}

// DecodeAuto parses an auto policy.
func DecodeAuto(fields []string) (types.Policy, error) {
	if len(fields) != autoFields {
		return nil, fieldCount("auto policy", autoFields, len(fields))
	}
	p := fieldParser{fields: fields}
	pol := types.AutoPolicy{
		PolicyBase:         p.base(),
		Description:        fields[3],
		FuelType:           fields[4],
		Vehicle:            p.vehicle(5),
		Coverage:           p.coverage(6),
		RoadsideAssistance: p.flag(7, "roadside assistance"),
		ClaimCount:         p.integer(8, "claim count"),
	}
	if p.err != nil {
		return nil, p.err
	}
	return pol, nil
}

// DecodeLife parses a life policy.
func DecodeLife(fields []string) (types.Policy, error) {
	if len(fields) != lifeFields {
		return nil, fieldCount("life policy", lifeFields, len(fields))
	}
	p := fieldParser{fields: fields}
	pol := types.LifePolicy{
		PolicyBase:   p.base(),
		BirthDate:    p.day(3, "birth date"),
		Risk:         p.risk(4),
		PayoutAmount: p.decimal(5, "payout amount"),
	}
	if p.err != nil {
		return nil, p.err
	}
	return pol, nil
}

func baseFields(b types.PolicyBase) []string {
	return []string{strconv.Itoa(b.ID), b.HolderID, formatFloat(b.Premium)}
}

func join(fields ...string) string {
	return strings.Join(fields, Delimiter)
}

// formatFloat uses the shortest representation that parses back to the same
// value.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// checkText rejects values that would break the line format.
func checkText(values ...string) error {
	for _, v := range values {
		if strings.ContainsAny(v, Delimiter+"\n\r") {
			return types.ErrDelimiterInField
		}
	}
	return nil
}

func fieldCount(what string, want, got int) error {
	return fmt.Errorf("%s: want %d fields, got %d: %w", what, want, got, types.ErrMalformedRecord)
}

func malformed(what string, err error) error {
	return fmt.Errorf("%s: %v: %w", what, err, types.ErrMalformedRecord)
}

// fieldParser parses fields by index and keeps the first error.
type fieldParser struct {
	fields []string
	err    error
}

func (p *fieldParser) fail(what string, err error) {
	if p.err == nil {
		p.err = malformed(what, err)
	}
}

func (p *fieldParser) base() types.PolicyBase {
	return types.PolicyBase{
		ID:       p.integer(0, "policy id"),
		HolderID: p.fields[1],
		Premium:  p.decimal(2, "premium"),
	}
}

func (p *fieldParser) integer(i int, what string) int {
	n, err := strconv.Atoi(strings.TrimSpace(p.fields[i]))
	if err != nil {
		p.fail(what, err)
	}
	return n
}

func (p *fieldParser) decimal(i int, what string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(p.fields[i]), 64)
	if err != nil {
		p.fail(what, err)
	}
	return f
}

func (p *fieldParser) flag(i int, what string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(p.fields[i]))
	if err != nil {
		p.fail(what, err)
	}
	return b
}

func (p *fieldParser) day(i int, what string) time.Time {
	t, err := time.Parse(types.DateLayout, strings.TrimSpace(p.fields[i]))
	if err != nil {
		p.fail(what, err)
	}
	return t
}

func (p *fieldParser) vehicle(i int) types.VehicleType {
	v, err := types.ParseVehicleType(p.fields[i])
	if err != nil {
		p.fail("vehicle type", err)
	}
	return v
}

func (p *fieldParser) coverage(i int) types.Coverage {
	c, err := types.ParseCoverage(p.fields[i])
	if err != nil {
		p.fail("coverage", err)
	}
	return c
}

func (p *fieldParser) risk(i int) types.RiskLevel {
	r, err := types.ParseRiskLevel(p.fields[i])
	if err != nil {
		p.fail("risk level", err)
	}
	return r
}
