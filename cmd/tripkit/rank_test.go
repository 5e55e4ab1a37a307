package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flightsJSON = `{
  "flights": [
    {"id": "f1", "airline": "CA", "departureAt": "2026-11-02T09:00:00Z", "durationMinutes": 180, "stops": 0, "price": 420, "seatsAvailable": 9},
    {"id": "f2", "airline": "MU", "departureAt": "2026-11-02T06:00:00Z", "durationMinutes": 320, "stops": 1, "price": 260, "seatsAvailable": 4},
    {"id": "f3", "airline": "CZ", "departureAt": "2026-11-02T23:00:00Z", "durationMinutes": 150, "stops": 0, "price": 310, "seatsAvailable": 2}
  ]
}`

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	reset := func() {
		configPath, rankKind, rankInput, rankPreset, rankTop, rankFilter, rankPipeline = "", "flight", "-", "", 0, "", ""
	}
	reset()
	t.Cleanup(reset)

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRankCommand_Flights(t *testing.T) {
	out, err := runCLI(t, flightsJSON, "rank", "--kind", "flight", "--top", "2", "--preset", "budget")
	require.NoError(t, err)

	var res struct {
		Preset          string                `json:"preset"`
		Items           []struct{ ID string } `json:"items"`
		Recommendations struct {
			Cheapest []struct{ ID string } `json:"cheapest"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "budget", res.Preset)
	assert.Len(t, res.Items, 3)
	require.Len(t, res.Recommendations.Cheapest, 2)
	assert.Equal(t, "f2", res.Recommendations.Cheapest[0].ID)
}

func TestRankCommand_FileAndPipeline(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "flights.json")
	require.NoError(t, os.WriteFile(input, []byte(flightsJSON), 0o600))
	stages := filepath.Join(dir, "stages.yaml")
	require.NoError(t, os.WriteFile(stages, []byte(`pipeline:
  nodes:
    - type: filter
      config:
        filters:
          - type: blocklist
            tag_key: airline
            values: [CA]
    - type: rerank.topn
      config:
        n: 1
`), 0o600))

	out, err := runCLI(t, "", "rank", "-i", input, "--pipeline", stages)
	require.NoError(t, err)
	assert.NotContains(t, out, `"id": "f1"`)

	var res struct {
		Items []struct{ ID string } `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Items, 1)
}

func TestRankCommand_Errors(t *testing.T) {
	_, err := runCLI(t, flightsJSON, "rank", "--kind", "train")
	assert.ErrorContains(t, err, "unknown kind")

	_, err = runCLI(t, "{not json", "rank")
	assert.ErrorContains(t, err, "decode flight request")

	_, err = runCLI(t, flightsJSON, "rank", "--preset", "nope")
	assert.ErrorContains(t, err, "unknown flight preset")
}
