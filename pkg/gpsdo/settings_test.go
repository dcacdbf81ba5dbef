package gpsdo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbtools/gpsdoctl/pkg/gpsdo"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

// validPartial is a complete, deployable configuration: f3 = 1 MHz,
// fosc = 5 GHz, fout1 = fout2 = 10 MHz.
func validPartial() gpsdo.Partial {
	return gpsdo.Partial{
		Out1: boolPtr(true), Out2: boolPtr(true), Level: intPtr(gpsdo.Level16mA),
		Fin: intPtr(10000000), N3: intPtr(10),
		N2HS: intPtr(5), N2LS: intPtr(1000),
		N1HS: intPtr(5), NC1LS: intPtr(100), NC2LS: intPtr(100),
		Skew: intPtr(0), BW: intPtr(15),
	}
}

func TestUpdate_StaticRanges(t *testing.T) {
	tests := []struct {
		name    string
		partial gpsdo.Partial
		wantErr string // field expected in the error map; "" means success
	}{
		{name: "fin below range", partial: gpsdo.Partial{Fin: intPtr(9999)}, wantErr: "fin"},
		{name: "fin above range", partial: gpsdo.Partial{Fin: intPtr(16000001)}, wantErr: "fin"},
		{name: "fin at lower bound", partial: gpsdo.Partial{Fin: intPtr(10000)}},
		{name: "fin at upper bound", partial: gpsdo.Partial{Fin: intPtr(16000000)}},
		{name: "n3 zero", partial: gpsdo.Partial{N3: intPtr(0)}, wantErr: "n3"},
		{name: "n3 max", partial: gpsdo.Partial{N3: intPtr(524288)}},
		{name: "n3 above max", partial: gpsdo.Partial{N3: intPtr(524289)}, wantErr: "n3"},
		{name: "n2_hs below", partial: gpsdo.Partial{N2HS: intPtr(3)}, wantErr: "n2_hs"},
		{name: "n2_hs above", partial: gpsdo.Partial{N2HS: intPtr(12)}, wantErr: "n2_hs"},
		{name: "n1_hs in range", partial: gpsdo.Partial{N1HS: intPtr(11)}},
		{name: "skew max", partial: gpsdo.Partial{Skew: intPtr(255)}},
		{name: "skew above max", partial: gpsdo.Partial{Skew: intPtr(256)}, wantErr: "skew"},
		{name: "bw above max", partial: gpsdo.Partial{BW: intPtr(16)}, wantErr: "bw"},
		{name: "level invalid", partial: gpsdo.Partial{Level: intPtr(4)}, wantErr: "level"},
		{name: "level valid", partial: gpsdo.Partial{Level: intPtr(3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := gpsdo.NewSettings()
			err := s.Update(tt.partial)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *gpsdo.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, cfgErr.Fields, tt.wantErr)
		})
	}
}

func TestUpdate_ParityRules(t *testing.T) {
	tests := []struct {
		name    string
		partial gpsdo.Partial
		field   string
		wantMsg string // "" means accepted
	}{
		{name: "n2_ls odd rejected", partial: gpsdo.Partial{N2LS: intPtr(3)}, field: "n2_ls", wantMsg: "must be even"},
		{name: "n2_ls one rejected", partial: gpsdo.Partial{N2LS: intPtr(1)}, field: "n2_ls", wantMsg: "must be even"},
		{name: "n2_ls even accepted", partial: gpsdo.Partial{N2LS: intPtr(1024)}, field: "n2_ls"},
		{name: "nc1_ls one accepted", partial: gpsdo.Partial{NC1LS: intPtr(1)}, field: "nc1_ls"},
		{name: "nc1_ls odd rejected", partial: gpsdo.Partial{NC1LS: intPtr(3)}, field: "nc1_ls", wantMsg: "must be 1 or even"},
		{name: "nc1_ls even accepted", partial: gpsdo.Partial{NC1LS: intPtr(2)}, field: "nc1_ls"},
		{name: "nc2_ls one accepted", partial: gpsdo.Partial{NC2LS: intPtr(1)}, field: "nc2_ls"},
		{name: "nc2_ls odd rejected", partial: gpsdo.Partial{NC2LS: intPtr(1048575)}, field: "nc2_ls", wantMsg: "must be 1 or even"},
		{name: "nc2_ls max accepted", partial: gpsdo.Partial{NC2LS: intPtr(1048576)}, field: "nc2_ls"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := gpsdo.NewSettings()
			err := s.Update(tt.partial)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *gpsdo.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, cfgErr.Fields[tt.field], tt.wantMsg)
		})
	}
}

func TestUpdate_Atomicity(t *testing.T) {
	s := gpsdo.NewSettings()
	require.NoError(t, s.Update(gpsdo.Partial{N3: intPtr(42), Fin: intPtr(10000000)}))

	// One bad field poisons the whole update; the good field must not land.
	err := s.Update(gpsdo.Partial{N3: intPtr(0), Fin: intPtr(12000000)})
	var cfgErr *gpsdo.ConfigError
	require.ErrorAs(t, err, &cfgErr)

	require.NotNil(t, s.N3)
	assert.Equal(t, 42, *s.N3)
	require.NotNil(t, s.Fin)
	assert.Equal(t, 10000000, *s.Fin)
}

func TestUpdate_CollectsAllErrors(t *testing.T) {
	s := gpsdo.NewSettings()
	err := s.Update(gpsdo.Partial{
		Fin:   intPtr(1),
		N2LS:  intPtr(3),
		NC1LS: intPtr(9),
		Level: intPtr(7),
	})

	var cfgErr *gpsdo.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Len(t, cfgErr.Fields, 4)
	assert.Contains(t, cfgErr.Fields, "fin")
	assert.Contains(t, cfgErr.Fields, "n2_ls")
	assert.Contains(t, cfgErr.Fields, "nc1_ls")
	assert.Contains(t, cfgErr.Fields, "level")
}

func TestUpdate_UnsuppliedFieldsUntouched(t *testing.T) {
	s := gpsdo.NewSettings()
	require.NoError(t, s.Update(validPartial()))
	require.NoError(t, s.Update(gpsdo.Partial{Skew: intPtr(4)}))

	assert.Equal(t, 10, *s.N3)
	assert.Equal(t, 4, *s.Skew)
	assert.True(t, s.Out1)
}

func TestSnapshot(t *testing.T) {
	s := gpsdo.NewSettings()

	// Incomplete settings cannot be snapshotted.
	_, err := s.Snapshot(false)
	var planErr *gpsdo.PlanError
	require.ErrorAs(t, err, &planErr)
	assert.Contains(t, planErr.Fields, "fin")

	require.NoError(t, s.Update(validPartial()))

	snapshot, err := s.Snapshot(false)
	require.NoError(t, err)
	assert.Equal(t, 10000000, snapshot.Fin)
	assert.Equal(t, 1000, snapshot.N2LS)
	assert.True(t, snapshot.Out1)

	// Restoring the snapshot into a fresh instance reproduces the state.
	restored := gpsdo.NewSettings()
	require.NoError(t, restored.Update(snapshot.Partial()))
	again, err := restored.Snapshot(false)
	require.NoError(t, err)
	assert.Equal(t, snapshot, again)
}

func TestSnapshot_IgnoreFreqLimits(t *testing.T) {
	s := gpsdo.NewSettings()
	// f3 = 10 MHz and fosc = 40.96 GHz are far outside the datasheet ranges.
	require.NoError(t, s.Update(gpsdo.Partial{
		Fin: intPtr(10000000), N3: intPtr(1),
		N2HS: intPtr(4), N2LS: intPtr(1024),
		N1HS: intPtr(4), NC1LS: intPtr(1), NC2LS: intPtr(1),
		Skew: intPtr(0), BW: intPtr(15),
	}))

	_, err := s.Snapshot(false)
	assert.Error(t, err)

	snapshot, err := s.Snapshot(true)
	require.NoError(t, err)
	assert.Equal(t, 1024, snapshot.N2LS)
}

func TestFillUnusedDividers(t *testing.T) {
	t.Run("mirror enabled channel", func(t *testing.T) {
		s := gpsdo.NewSettings()
		require.NoError(t, s.Update(gpsdo.Partial{
			Out2: boolPtr(true), NC2LS: intPtr(100),
		}))
		s.FillUnusedDividers()
		require.NotNil(t, s.NC1LS)
		assert.Equal(t, 100, *s.NC1LS)
	})

	t.Run("both disabled uses safe divider", func(t *testing.T) {
		s := gpsdo.NewSettings()
		s.FillUnusedDividers()
		require.NotNil(t, s.NC1LS)
		require.NotNil(t, s.NC2LS)
		assert.Equal(t, 5670, *s.NC1LS)
		assert.Equal(t, 5670, *s.NC2LS)
	})

	t.Run("defined dividers untouched", func(t *testing.T) {
		s := gpsdo.NewSettings()
		require.NoError(t, s.Update(gpsdo.Partial{NC1LS: intPtr(2), NC2LS: intPtr(4)}))
		s.FillUnusedDividers()
		assert.Equal(t, 2, *s.NC1LS)
		assert.Equal(t, 4, *s.NC2LS)
	})
}

func TestLevelFromMilliamps(t *testing.T) {
	level, ok := gpsdo.LevelFromMilliamps(24)
	require.True(t, ok)
	assert.Equal(t, gpsdo.Level24mA, level)

	_, ok = gpsdo.LevelFromMilliamps(12)
	assert.False(t, ok)
}
