package filestore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/coverdesk/internal/codec"
	"github.com/mesh-intelligence/coverdesk/internal/counter"
	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

func newPolicyStore(t *testing.T) (*PolicyStore, *flakyFile, *counter.Registry) {
	t.Helper()
	f := &flakyFile{LineFile: NewLineFile(filepath.Join(t.TempDir(), "policies.txt"))}
	reg := counter.New()
	return NewPolicyStore(f, reg, nil), f, reg
}

func homePolicy(id int) types.HomePolicy {
	return types.HomePolicy{
		PolicyBase:       types.PolicyBase{ID: id, HolderID: "12345678Z", Premium: 300},
		AreaSqm:          75,
		ContentsValue:    5000,
		Address:          "Plaza Mayor 2",
		ConstructionYear: 1990,
	}
}

func lifePolicy(id int) types.LifePolicy {
	return types.LifePolicy{
		PolicyBase:   types.PolicyBase{ID: id, HolderID: "11111111H", Premium: 40},
		BirthDate:    time.Date(1985, time.March, 12, 0, 0, 0, 0, time.UTC),
		Risk:         types.RiskLow,
		PayoutAmount: 100000,
	}
}

func TestPolicyStoreAddAppends(t *testing.T) {
	s, f, _ := newPolicyStore(t)
	require.NoError(t, s.Add(homePolicy(100001)))
	require.NoError(t, s.Add(lifePolicy(800001)))

	assert.Equal(t,
		"100001;12345678Z;300;75;5000;Plaza Mayor 2;1990;SeguroHogar\n"+
			"800001;11111111H;40;12/03/1985;LOW;100000;SeguroVida\n",
		readFile(t, f.Path()))
	assert.Len(t, s.All(), 2)
}

func TestPolicyStoreAppendFailureLeavesMemory(t *testing.T) {
	s, f, _ := newPolicyStore(t)
	f.failAppend = true

	assert.ErrorIs(t, s.Add(homePolicy(100001)), types.ErrIO)
	assert.Empty(t, s.All())
}

func TestPolicyStoreAddRejectsDuplicateID(t *testing.T) {
	s, f, _ := newPolicyStore(t)
	require.NoError(t, s.Add(homePolicy(100001)))
	before := readFile(t, f.Path())

	dup := homePolicy(100001)
	dup.Address = "Other"
	assert.ErrorIs(t, s.Add(dup), types.ErrDuplicateIdentity)
	assert.Equal(t, before, readFile(t, f.Path()))
	assert.Len(t, s.All(), 1)
}

func TestPolicyStoreRemove(t *testing.T) {
	s, f, _ := newPolicyStore(t)
	require.NoError(t, s.Add(homePolicy(100001)))
	require.NoError(t, s.Add(lifePolicy(800001)))

	require.NoError(t, s.Remove(100001))
	assert.Equal(t, "800001;11111111H;40;12/03/1985;LOW;100000;SeguroVida\n", readFile(t, f.Path()))
	assert.ErrorIs(t, s.Remove(100001), types.ErrNotFound)
}

func TestPolicyStoreRemoveFailureLeavesBoth(t *testing.T) {
	s, f, _ := newPolicyStore(t)
	require.NoError(t, s.Add(homePolicy(100001)))
	before := readFile(t, f.Path())
	f.failWrite = true

	assert.ErrorIs(t, s.Remove(100001), types.ErrIO)
	_, ok := s.Find(100001)
	assert.True(t, ok)
	assert.Equal(t, before, readFile(t, f.Path()))
}

func TestPolicyStoreLoadPartial(t *testing.T) {
	s, f, reg := newPolicyStore(t)
	lines := []string{
		"100001;12345678Z;300;75;5000;Plaza Mayor 2;1990;SeguroHogar",
		"100005;12345678Z;300;75;5000;Plaza Mayor 4;1990;SeguroHogar",
		"500001;12345678Z;10;x;SeguroMascota",
		"400001;87654321X;1200;Seat;petrol;CAR;ALL_RISK;nope;0;SeguroAuto",
		"100002;12345678Z;300;75;5000;Plaza Mayor 3;1990;SeguroHogar",
		"100002;12345678Z;999;75;5000;Duplicate;1990;SeguroHogar",
		"800003;11111111H;40;12/03/1985;LOW;100000;SeguroVida",
	}
	require.NoError(t, os.WriteFile(f.Path(), []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	report, err := s.Load(codec.PolicyDecoders())
	require.NoError(t, err)
	assert.Equal(t, 7, report.Lines)
	assert.Equal(t, 4, report.Loaded)
	assert.Equal(t, 3, report.Skipped)

	var ids []int
	for _, p := range s.All() {
		ids = append(ids, p.Base().ID)
	}
	assert.Equal(t, []int{100001, 100005, 100002, 800003}, ids)

	assert.Equal(t, 100005, reg.Current(types.VariantHome))
	assert.Equal(t, types.AutoIDBase, reg.Current(types.VariantAuto))
	assert.Equal(t, 800003, reg.Current(types.VariantLife))

	next, err := reg.Next(types.VariantHome)
	require.NoError(t, err)
	assert.Equal(t, 100006, next)
}

func TestPolicyStoreLoadSkipsIDOutsideVariantRange(t *testing.T) {
	s, f, reg := newPolicyStore(t)
	lines := []string{
		"400005;12345678Z;300;75;5000;Plaza Mayor 2;1990;SeguroHogar",
		"400006;87654321X;1200;Seat;petrol;CAR;ALL_RISK;true;0;SeguroAuto",
		"100003;11111111H;40;12/03/1985;LOW;100000;SeguroVida",
	}
	require.NoError(t, os.WriteFile(f.Path(), []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	report, err := s.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Loaded)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, types.HomeIDBase, reg.Current(types.VariantHome))
	assert.Equal(t, 400006, reg.Current(types.VariantAuto))
	assert.Equal(t, types.LifeIDBase, reg.Current(types.VariantLife))

	id, err := reg.Next(types.VariantHome)
	require.NoError(t, err)
	require.NoError(t, s.Add(homePolicy(id)))

	seen := map[int]int{}
	for _, p := range s.All() {
		seen[p.Base().ID]++
	}
	assert.Equal(t, map[int]int{400006: 1, 100001: 1}, seen)
}

func TestPolicyStoreLoadCustomDecoders(t *testing.T) {
	s, f, _ := newPolicyStore(t)
	content := "100001;12345678Z;300;75;5000;Plaza;1990;SeguroHogar\n" +
		"800001;11111111H;40;12/03/1985;LOW;100000;SeguroVida\n"
	require.NoError(t, os.WriteFile(f.Path(), []byte(content), 0o644))

	onlyLife := map[types.Variant]codec.PolicyDecoder{types.VariantLife: codec.DecodeLife}
	report, err := s.Load(onlyLife)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Loaded)
	assert.Equal(t, 1, report.Skipped)
}

func TestPolicyStoreLoadNothing(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{name: "absent"},
		{name: "empty", content: ptr("")},
		{name: "only garbage", content: ptr("garbage\n;;;\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, f, reg := newPolicyStore(t)
			if tt.content != nil {
				require.NoError(t, os.WriteFile(f.Path(), []byte(*tt.content), 0o644))
			}
			_, err := s.Load(nil)
			assert.ErrorIs(t, err, types.ErrNothingLoaded)
			assert.Equal(t, types.HomeIDBase, reg.Current(types.VariantHome))
		})
	}
}

func TestPolicyStoreRoundTripThroughFile(t *testing.T) {
	s, f, _ := newPolicyStore(t)
	auto := types.AutoPolicy{
		PolicyBase:         types.PolicyBase{ID: 400001, HolderID: "87654321X", Premium: 812.35},
		Description:        "Renault Clio",
		FuelType:           "diesel",
		Vehicle:            types.VehicleCar,
		Coverage:           types.CoverageThirdPartyExtended,
		RoadsideAssistance: true,
		ClaimCount:         1,
	}
	require.NoError(t, s.Add(auto))
	require.NoError(t, s.Add(lifePolicy(800001)))

	reloaded := NewPolicyStore(f.LineFile, counter.New(), nil)
	_, err := reloaded.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, s.All(), reloaded.All())
}

func ptr(s string) *string { return &s }
