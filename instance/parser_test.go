package instance_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cvrp/instance"
)

const tinyVRP = `NAME : tiny
COMMENT : five vertices on a cross
TYPE : CVRP
DIMENSION : 5
EDGE_WEIGHT_TYPE : EUC_2D
CAPACITY : 4
NODE_COORD_SECTION
1 0 0
2 1 0
3 0 1
4 -1 0
5 0 -1
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

func TestParseString_Tiny(t *testing.T) {
	data, err := instance.ParseString(tinyVRP)
	require.NoError(t, err)

	require.Equal(t, 4, data.Capacity)
	require.Equal(t, []int{0, 1, 1, 1, 1}, data.Demands)
	require.Equal(t, []float64{0, 1, 0, -1, 0}, data.XCoords)
	require.Equal(t, []float64{0, 0, 1, 0, -1}, data.YCoords)
	require.Zero(t, data.DistanceLimit)
}

func TestParseString_OptionalDurationFields(t *testing.T) {
	text := `NAME : tiny-d
COMMENT : duration constrained
TYPE : CVRP
DIMENSION : 3
EDGE_WEIGHT_TYPE : EUC_2D
CAPACITY : 10
DISTANCE : 40.5
SERVICE_TIME : 2
NODE_COORD_SECTION
1 0 0
2 3 4
3 6 8
DEMAND_SECTION
1 0
2 5
3 5
DEPOT_SECTION
1
-1
EOF
`
	data, err := instance.ParseString(text)
	require.NoError(t, err)
	require.Equal(t, 40.5, data.DistanceLimit)
	require.Equal(t, 2.0, data.ServiceTime)
}

func TestParseString_Malformed(t *testing.T) {
	cases := map[string]string{
		"missing dimension": `NAME : x
CAPACITY : 4
NODE_COORD_SECTION
`,
		"unknown header": `NAME : x
WHEELS : 4
`,
		"bad coord line": `DIMENSION : 2
CAPACITY : 4
NODE_COORD_SECTION
1 0
2 1 0
DEMAND_SECTION
1 0
2 1
EOF
`,
		"short demand section": `DIMENSION : 3
CAPACITY : 4
NODE_COORD_SECTION
1 0 0
2 1 0
3 0 1
DEMAND_SECTION
1 0
2 1
EOF
`,
	}

	for name, text := range cases {
		_, err := instance.ParseString(text)
		require.ErrorIs(t, err, instance.ErrParse, name)
	}
}

func TestLoad_RoundTripThroughFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.vrp")
	require.NoError(t, os.WriteFile(path, []byte(tinyVRP), 0o600))

	inst, err := instance.Load(path, instance.Options{NeighborsNum: 5})
	require.NoError(t, err)
	require.Equal(t, 5, inst.VerticesNum())
	require.Equal(t, 4, inst.Capacity())

	_, err = instance.Load(filepath.Join(dir, "missing.vrp"), instance.Options{})
	require.ErrorIs(t, err, instance.ErrParse)
}
