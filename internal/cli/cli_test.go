package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/huddle-ai/huddle/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const directoryJSON = `{
	"4": {"player_id": "4", "first_name": "Justin", "last_name": "Jefferson", "team": "MIN", "position": "WR", "status": "Active", "active": true, "search_rank": 5},
	"17": {"player_id": "17", "first_name": "Davante", "last_name": "Adams", "position": "WR", "status": "Active", "active": true, "search_rank": 20},
	"9": {"player_id": "9", "first_name": "Waiver", "last_name": "Darling", "position": "RB", "status": "Active", "active": true}
}`

// setupEnv points the config at a fake directory and a temp database
func setupEnv(t *testing.T) {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/players/nfl" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, directoryJSON)
	}))
	t.Cleanup(upstream.Close)

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HUDDLE_CLAUDE_API_KEY", "sk-test")
	t.Setenv("HUDDLE_SLEEPER_BASE_URL", upstream.URL)
	t.Setenv("HUDDLE_DATABASE_PATH", filepath.Join(dir, "huddle.db"))
	t.Setenv("HUDDLE_LOGGING_LEVEL", "error")
	t.Setenv("HUDDLE_LOGGING_FORMAT", "console")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(io.Discard)
	RootCmd.SetArgs(args)
	t.Cleanup(func() { RootCmd.SetArgs(nil) })
	err := RootCmd.Execute()
	return out.String(), err
}

func TestPlayersCommands(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "players", "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "synced 3 players")

	out, err = execute(t, "players", "list", "--position", "wr", "--limit", "5")
	require.NoError(t, err)
	var listed []struct {
		PlayerID string `json:"playerId"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, "4", listed[0].PlayerID)
	assert.Equal(t, "17", listed[1].PlayerID)

	out, err = execute(t, "players", "show", "9")
	require.NoError(t, err)
	assert.Contains(t, out, `"fullName": "Waiver Darling"`)

	_, err = execute(t, "players", "show", "nope")
	assert.Error(t, err)

	out, err = execute(t, "players", "search", "adams", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "17"`)
}

func TestMissingAPIKeyFails(t *testing.T) {
	setupEnv(t)
	t.Setenv("HUDDLE_CLAUDE_API_KEY", "")

	_, err := execute(t, "players", "sync")
	assert.ErrorContains(t, err, "claude.api_key is required")
}

func TestPrintAnswer(t *testing.T) {
	var buf bytes.Buffer
	printAnswer(&buf, &domain.AnalysisResponse{
		Message: "Go with Jefferson.",
		Recommendations: []domain.Recommendation{
			{Type: domain.RecommendStart, Player: "Justin Jefferson", Confidence: domain.ConfidenceMedium},
		},
	})
	assert.Equal(t, "Go with Jefferson.\n\nRecommendations:\n  START Justin Jefferson (medium confidence)\n", buf.String())

	buf.Reset()
	printAnswer(&buf, &domain.AnalysisResponse{Message: "No picks."})
	assert.Equal(t, "No picks.\n", buf.String())
}
