package session

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wwtp-carbon/internal/ingest"
)

func loadDataset(t *testing.T) *ingest.Dataset {
	t.Helper()
	body := `[
		{"date":"2024-01-10","treated_water_m3":1,"electricity_kwh":1,"tn_in_mgl":1,"tn_out_mgl":1,"cod_in_mgl":1,"cod_out_mgl":1,"pac_kg":1,"pam_kg":1,"naclo_kg":1},
		{"date":"2024-02-10","treated_water_m3":1,"electricity_kwh":1,"tn_in_mgl":1,"tn_out_mgl":1,"cod_in_mgl":1,"cod_out_mgl":1,"pac_kg":1,"pam_kg":1,"naclo_kg":1}
	]`
	ds, err := ingest.NewLoader(ingest.DefaultOptions(), zerolog.Nop()).Load("d.json", []byte(body))
	require.NoError(t, err)
	return ds
}

func TestState_Dataset(t *testing.T) {
	s := NewState()
	ds, month := s.Dataset()
	assert.Nil(t, ds)
	assert.Empty(t, month)
	assert.ErrorIs(t, s.SelectMonth("2024-01"), ErrNoDataset)

	s.SetDataset(loadDataset(t))
	_, month = s.Dataset()
	assert.Equal(t, "2024-02", month)

	require.NoError(t, s.SelectMonth("2024-01"))
	_, month = s.Dataset()
	assert.Equal(t, "2024-01", month)
	assert.ErrorIs(t, s.SelectMonth("2023-12"), ErrUnknownMonth)
}

func TestState_Levels(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SetLevels(-30, 20))
	a, p := s.Levels()
	assert.Equal(t, -30.0, a)
	assert.Equal(t, 20.0, p)

	assert.ErrorIs(t, s.SetLevels(31, 0), ErrOutOfRange)
	assert.Error(t, s.SetLevels(0, -20.5))
	a, _ = s.Levels()
	assert.Equal(t, -30.0, a)
}

func TestState_Units(t *testing.T) {
	s := NewState()
	units := s.Units()
	require.Len(t, units, 15)
	assert.Equal(t, "粗格栅", units[0].Name)
	assert.Equal(t, "除臭系统", units[14].Name)

	off := false
	energy := 4200.0
	u, err := s.UpdateUnit("好氧池", UnitPatch{Enabled: &off, EnergyKWh: &energy})
	require.NoError(t, err)
	assert.False(t, u.Enabled)
	assert.Equal(t, 4200.0, u.EnergyKWh)
	assert.Equal(t, 20.0, u.TNIn)

	units[0].Enabled = false
	assert.True(t, s.Units()[0].Enabled, "Units returns a copy")

	_, err = s.UpdateUnit("nope", UnitPatch{})
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestState_Formulas(t *testing.T) {
	s := NewState()
	require.NotNil(t, s.Formulas())
	assert.Len(t, s.Formulas().List(), 1)
}

func TestCache(t *testing.T) {
	c := NewCache[string](time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	id := c.Put("report")
	assert.Len(t, id, 36)
	v, ok := c.Get(id)
	require.True(t, ok)
	assert.Equal(t, "report", v)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Sweep())
	assert.Zero(t, c.Len())

	c.Put("x")
	c.Clear()
	assert.Zero(t, c.Len())
}

func TestCache_StartStopsOnCancel(t *testing.T) {
	c := NewCache[int](time.Nanosecond)
	c.Put(1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Start(ctx, time.Millisecond)
		close(done)
	}()
	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
