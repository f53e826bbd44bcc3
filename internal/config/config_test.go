package config

import (
	"os"
	"path/filepath"
	"testing"

	"energyflow/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScenario = `
network:
  buses:
    - id: coal
      kind: coal
    - id: elec
      kind: elec
    - id: heat
      kind: th
  transformers:
    - id: pp_coal
      input: coal
      output: elec
      eta: 0.5
  chps:
    - id: chp_gas
      input: coal
      power: elec
      heat: heat
timesteps: 3
invest: false
default_capacity: 200
capacities:
  - src: coal
    dst: pp_coal
    value: 50
solver: cbc
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeScenario(t, sampleScenario))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Timesteps)
	assert.Equal(t, "cbc", cfg.Solver)
	assert.Equal(t, 200.0, cfg.DefaultCapacity)
	require.Len(t, cfg.Network.Buses, 3)
	require.Len(t, cfg.Network.Transformers, 1)
	assert.Equal(t, 0.5, cfg.Network.Transformers[0].Eta)
	require.Len(t, cfg.Network.CHPs, 1)
}

func TestLoadDefaultsSolver(t *testing.T) {
	body := `
network:
  buses:
    - id: b1
timesteps: 1
`
	cfg, err := Load(writeScenario(t, body))
	require.NoError(t, err)
	assert.Equal(t, "glpk", cfg.Solver)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("network: [unterminated"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no buses", "network: {}\ntimesteps: 1\n"},
		{"zero timesteps", "network:\n  buses:\n    - id: b1\ntimesteps: 0\n"},
		{"eta above one", `
network:
  buses:
    - id: b1
    - id: b2
  transformers:
    - id: t1
      input: b1
      output: b2
      eta: 1.5
timesteps: 1
`},
		{"duplicate bus id", `
network:
  buses:
    - id: b1
    - id: b1
timesteps: 1
`},
		{"transformer unknown bus", `
network:
  buses:
    - id: b1
  transformers:
    - id: t1
      input: b1
      output: ghost
      eta: 0.5
timesteps: 1
`},
		{"chp unknown bus", `
network:
  buses:
    - id: b1
    - id: b2
  chps:
    - id: c1
      input: b1
      power: b2
      heat: ghost
timesteps: 1
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tc.body))
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEntitiesSharesBusPointers(t *testing.T) {
	cfg, err := Parse([]byte(sampleScenario))
	require.NoError(t, err)

	ents, err := cfg.Entities()
	require.NoError(t, err)

	require.Len(t, ents.Buses, 3)
	require.Len(t, ents.Transformers, 1)
	require.Len(t, ents.CHPs, 1)

	coal, err := ents.Bus("coal")
	require.NoError(t, err)
	assert.Same(t, coal, ents.Transformers[0].Inputs[0])
	assert.Same(t, coal, ents.CHPs[0].Inputs[0])

	// Omitted CHP parameters stay zero and resolve through the defaults.
	assert.Zero(t, ents.CHPs[0].Efficiency)
	assert.Equal(t, model.DefaultCHPEfficiency, ents.CHPs[0].EffectiveEfficiency())
}

func TestEntitiesExplicitCHPParameters(t *testing.T) {
	body := `
network:
  buses:
    - id: gas
    - id: elec
    - id: th
  chps:
    - id: c1
      input: gas
      power: elec
      heat: th
      efficiency: 0.9
      power_to_heat_ratio: 0.5
timesteps: 1
`
	cfg, err := Parse([]byte(body))
	require.NoError(t, err)

	ents, err := cfg.Entities()
	require.NoError(t, err)
	assert.Equal(t, 0.9, ents.CHPs[0].EffectiveEfficiency())
	assert.Equal(t, 0.5, ents.CHPs[0].EffectivePowerToHeatRatio())
}

func TestBuildOptions(t *testing.T) {
	cfg, err := Parse([]byte(sampleScenario))
	require.NoError(t, err)

	opts := cfg.BuildOptions()
	assert.False(t, opts.Invest)
	assert.Equal(t, 200.0, opts.DefaultCapacity)
	assert.Equal(t, 50.0, opts.Capacities[model.Edge{Src: "coal", Dst: "pp_coal"}])

	// Edges without an override fall back to the scenario default.
	assert.Equal(t, 200.0, opts.Capacity(model.Edge{Src: "pp_coal", Dst: "elec"}))
	assert.Equal(t, 50.0, opts.Capacity(model.Edge{Src: "coal", Dst: "pp_coal"}))
}

func TestTimestepIndices(t *testing.T) {
	cfg := &Config{Timesteps: 4}
	assert.Equal(t, []int{0, 1, 2, 3}, cfg.TimestepIndices())
}
