package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

func samplePolicies() []types.Policy {
	return []types.Policy{
		types.HomePolicy{
			PolicyBase:       types.PolicyBase{ID: 100001, HolderID: "12345678Z", Premium: 350.5},
			AreaSqm:          90,
			ContentsValue:    20000,
			Address:          "Calle Mayor 1, Madrid",
			ConstructionYear: 1998,
		},
		types.HomePolicy{
			PolicyBase:       types.PolicyBase{ID: 100002, HolderID: "00000001R", Premium: 0.01},
			AreaSqm:          1,
			ContentsValue:    0.1,
			Address:          "A",
			ConstructionYear: 0,
		},
		types.AutoPolicy{
			PolicyBase:         types.PolicyBase{ID: 400001, HolderID: "87654321X", Premium: 1200.75},
			Description:        "Seat Ibiza 2019",
			FuelType:           "petrol",
			Vehicle:            types.VehicleCar,
			Coverage:           types.CoverageExcess300,
			RoadsideAssistance: true,
			ClaimCount:         2,
		},
		types.AutoPolicy{
			PolicyBase:  types.PolicyBase{ID: 400002, HolderID: "11111111H", Premium: 99},
			Description: "Vespa",
			FuelType:    "electric",
			Vehicle:     types.VehicleMotorcycle,
			Coverage:    types.CoverageThirdParty,
		},
		types.LifePolicy{
			PolicyBase:   types.PolicyBase{ID: 800001, HolderID: "22222222J", Premium: 45.3},
			BirthDate:    time.Date(2000, time.February, 29, 0, 0, 0, 0, time.UTC),
			Risk:         types.RiskHigh,
			PayoutAmount: 150000,
		},
		types.LifePolicy{
			PolicyBase:   types.PolicyBase{ID: 800002, HolderID: "33333333P", Premium: 1e-3},
			BirthDate:    time.Date(1950, time.December, 31, 0, 0, 0, 0, time.UTC),
			Risk:         types.RiskLow,
			PayoutAmount: 0.5,
		},
	}
}

func TestPolicyRoundTrip(t *testing.T) {
	for _, p := range samplePolicies() {
		t.Run(types.Describe(p), func(t *testing.T) {
			line, err := Encode(p)
			require.NoError(t, err)

			fields, tag := SplitTagged(line)
			assert.Equal(t, p.Variant(), tag)

			got, err := Decode(fields, tag)
			require.NoError(t, err)
			assert.Equal(t, p, got)
		})
	}
}

func TestEncodeFieldOrder(t *testing.T) {
	tests := []struct {
		name   string
		policy types.Policy
		want   string
	}{
		{
			name:   "home",
			policy: samplePolicies()[0],
			want:   "100001;12345678Z;350.5;90;20000;Calle Mayor 1, Madrid;1998;SeguroHogar",
		},
		{
			name:   "auto",
			policy: samplePolicies()[2],
			want:   "400001;87654321X;1200.75;Seat Ibiza 2019;petrol;CAR;EXCESS_300;true;2;SeguroAuto",
		},
		{
			name:   "life",
			policy: samplePolicies()[4],
			want:   "800001;22222222J;45.3;29/02/2000;HIGH;150000;SeguroVida",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserRoundTrip(t *testing.T) {
	u := types.User{Name: "admin", Credential: "$2a$10$abcdefghijklmnopqrstuv", Role: types.RoleAdmin}
	line, err := EncodeUser(u)
	require.NoError(t, err)
	assert.Equal(t, "admin;$2a$10$abcdefghijklmnopqrstuv;ADMIN", line)

	got, err := DecodeUser(Split(line))
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestDecodeUserLegacyRole(t *testing.T) {
	got, err := DecodeUser(Split("maria;hash;GESTION"))
	require.NoError(t, err)
	assert.Equal(t, types.RoleManagement, got.Role)
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "home missing field", line: "100001;12345678Z;350.5;90;20000;1998;SeguroHogar"},
		{name: "home bad area", line: "100001;12345678Z;350.5;ninety;20000;Calle;1998;SeguroHogar"},
		{name: "auto missing field", line: "400001;87654321X;1200;Seat;petrol;CAR;ALL_RISK;true;SeguroAuto"},
		{name: "auto bad bool", line: "400001;87654321X;1200;Seat;petrol;CAR;ALL_RISK;maybe;1;SeguroAuto"},
		{name: "auto unknown vehicle", line: "400001;87654321X;1200;Seat;petrol;BUS;ALL_RISK;true;1;SeguroAuto"},
		{name: "life bad date", line: "800001;22222222J;45;1990-01-01;LOW;1000;SeguroVida"},
		{name: "life impossible date", line: "800001;22222222J;45;30/02/1990;LOW;1000;SeguroVida"},
		{name: "life unknown risk", line: "800001;22222222J;45;01/01/1990;EXTREME;1000;SeguroVida"},
		{name: "bad id", line: "abc;22222222J;45;01/01/1990;LOW;1000;SeguroVida"},
		{name: "bad premium", line: "800001;22222222J;4,5;01/01/1990;LOW;1000;SeguroVida"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, tag := SplitTagged(tt.line)
			_, err := Decode(fields, tag)
			assert.ErrorIs(t, err, types.ErrMalformedRecord)
		})
	}
}

func TestDecodeUserMalformed(t *testing.T) {
	for _, line := range []string{"admin;hash", "admin;hash;ADMIN;extra", ";hash;ADMIN", "admin;hash;ROOT"} {
		_, err := DecodeUser(Split(line))
		assert.ErrorIs(t, err, types.ErrMalformedRecord, line)
	}
}

func TestDecodeLegacyEnums(t *testing.T) {
	fields, tag := SplitTagged("400003;87654321X;300.0;Pegaso;diesel;CAMION;FRANQUICIA_200;false;0;SeguroAuto")
	got, err := Decode(fields, tag)
	require.NoError(t, err)
	auto := got.(types.AutoPolicy)
	assert.Equal(t, types.VehicleTruck, auto.Vehicle)
	assert.Equal(t, types.CoverageExcess200, auto.Coverage)
	assert.InDelta(t, 300.0, auto.Premium, 1e-9)
}

func TestDecodeUnknownVariant(t *testing.T) {
	_, err := Decode([]string{"1"}, types.Variant("SeguroMascota"))
	assert.ErrorIs(t, err, types.ErrUnknownVariant)
}

func TestEncodeRejectsDelimiter(t *testing.T) {
	home := samplePolicies()[0].(types.HomePolicy)
	home.Address = "Calle Mayor; 1"
	_, err := Encode(home)
	assert.ErrorIs(t, err, types.ErrDelimiterInField)

	auto := samplePolicies()[2].(types.AutoPolicy)
	auto.Description = "two\nlines"
	_, err = Encode(auto)
	assert.ErrorIs(t, err, types.ErrDelimiterInField)

	_, err = EncodeUser(types.User{Name: "a;b", Credential: "x", Role: types.RoleView})
	assert.ErrorIs(t, err, types.ErrDelimiterInField)
}

func TestEncodeRejectsPointerPolicy(t *testing.T) {
	home := samplePolicies()[0].(types.HomePolicy)
	_, err := Encode(&home)
	assert.ErrorIs(t, err, types.ErrUnknownVariant)
}

func TestPolicyDecodersCoverEveryVariant(t *testing.T) {
	decoders := PolicyDecoders()
	for _, v := range types.Variants {
		assert.Contains(t, decoders, v)
	}
}
