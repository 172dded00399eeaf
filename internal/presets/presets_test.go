package presets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Builtins(t *testing.T) {
	t.Parallel()

	got, err := Load(context.Background(), "")
	require.NoError(t, err)

	campaign, ok := got["campaign"]
	require.True(t, ok)
	require.Contains(t, campaign.Fields, "campaign.id")
	require.Contains(t, got, "keyword_view")
	require.Contains(t, got, "campaign_metrics")
}

func TestLoad_FileMergesOverBuiltins(t *testing.T) {
	t.Parallel()

	src := `
resource "campaign" {
  description = "Trimmed campaign view"
  fields      = ["campaign.id", "campaign.name"]
  params = {
    limit    = 50
    enabled  = true
    orderings = ["campaign.id DESC"]
  }
}

resource "asset" {
  fields = ["asset.id", "asset.name"]
}
`
	path := filepath.Join(t.TempDir(), "presets.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	got, err := Load(context.Background(), path)
	require.NoError(t, err)

	// Overridden built-in.
	campaign := got["campaign"]
	require.Equal(t, "Trimmed campaign view", campaign.Description)
	require.Equal(t, []string{"campaign.id", "campaign.name"}, campaign.Fields)
	require.Equal(t, float64(50), campaign.Params["limit"])
	require.Equal(t, true, campaign.Params["enabled"])
	require.Equal(t, []any{"campaign.id DESC"}, campaign.Params["orderings"])

	// New resource added alongside untouched built-ins.
	require.Contains(t, got, "asset")
	require.Contains(t, got, "ad_group")
}

func TestLoad_BadFileFails(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`resource "x" {`), 0o644))

	_, err := Load(context.Background(), path)
	require.Error(t, err)
}

func TestLoad_MissingFieldsAttributeFails(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nofields.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`resource "x" {}`), 0o644))

	_, err := Load(context.Background(), path)
	require.Error(t, err)
}
