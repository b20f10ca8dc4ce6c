package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cvrp/solver"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, paths, err := parseConfig([]string{"in.vrp", "out.sol"})
	require.NoError(t, err)

	require.Equal(t, "in.vrp", paths[0])
	require.Equal(t, "out.sol", paths[1])
	require.True(t, cfg.round)
	require.False(t, cfg.log)

	opts := cfg.solverOptions()
	require.Equal(t, solver.DefaultOptions(), opts)
}

func TestParseConfig_Flags(t *testing.T) {
	cfg, _, err := parseConfig([]string{
		"-t", "30", "-it", "500", "-seed", "7", "-veh", "12",
		"-round=false", "-log", "-tolerance", "0.05",
		"in.vrp", "out.sol",
	})
	require.NoError(t, err)

	require.False(t, cfg.round)
	require.True(t, cfg.log)

	opts := cfg.solverOptions()
	require.Equal(t, 30*time.Second, opts.TimeLimit)
	require.Equal(t, 500, opts.StallLimit)
	require.Equal(t, int64(7), opts.Seed)
	require.Equal(t, 12, opts.MaxRoutes)
	require.Equal(t, 0.05, opts.Tolerance)
}

func TestParseConfig_Positionals(t *testing.T) {
	_, _, err := parseConfig([]string{"in.vrp"})
	require.Error(t, err)

	_, _, err = parseConfig([]string{"a", "b", "c"})
	require.Error(t, err)
}

func writeParams(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestParseConfig_ParamsFile(t *testing.T) {
	path := writeParams(t, "seed: 42\ntolerance: 0.2\ncoreopt-iterations: 5000\n")

	cfg, _, err := parseConfig([]string{"-params", path, "in.vrp", "out.sol"})
	require.NoError(t, err)

	require.Equal(t, int64(42), cfg.seed)
	require.Equal(t, 0.2, cfg.tolerance)
	require.Equal(t, 5000, cfg.coreOptIterations)
}

func TestParseConfig_FlagsBeatParams(t *testing.T) {
	path := writeParams(t, "seed: 42\ntolerance: 0.2\n")

	cfg, _, err := parseConfig([]string{"-params", path, "-seed", "7", "in.vrp", "out.sol"})
	require.NoError(t, err)

	require.Equal(t, int64(7), cfg.seed)
	require.Equal(t, 0.2, cfg.tolerance)
}

func TestParseConfig_ParamsErrors(t *testing.T) {
	_, _, err := parseConfig([]string{"-params", filepath.Join(t.TempDir(), "missing.yaml"), "in.vrp", "out.sol"})
	require.Error(t, err)

	path := writeParams(t, "seed: [not a scalar\n")
	_, _, err = parseConfig([]string{"-params", path, "in.vrp", "out.sol"})
	require.Error(t, err)
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	instPath := filepath.Join(dir, "line.vrp")
	solPath := filepath.Join(dir, "line.sol")

	body := `NAME : line
TYPE : CVRP
DIMENSION : 5
EDGE_WEIGHT_TYPE : EUC_2D
CAPACITY : 10
NODE_COORD_SECTION
1 0 0
2 1 0
3 2 0
4 3 0
5 4 0
DEMAND_SECTION
1 0
2 1
3 1
4 1
5 1
DEPOT_SECTION
1
-1
EOF
`
	require.NoError(t, os.WriteFile(instPath, []byte(body), 0o600))

	err := run([]string{
		"-seed", "1", "-coreopt-iterations", "50", "-routemin-iterations", "50",
		instPath, solPath,
	}, os.Stdout)
	require.NoError(t, err)

	written, err := os.ReadFile(solPath)
	require.NoError(t, err)
	require.NotEmpty(t, written)
}

func TestRun_MissingInstance(t *testing.T) {
	err := run([]string{filepath.Join(t.TempDir(), "missing.vrp"), "out.sol"}, os.Stdout)
	require.Error(t, err)
}
