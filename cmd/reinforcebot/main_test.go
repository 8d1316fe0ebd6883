package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reinforcebot/config"
	"reinforcebot/models"
)

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(`
# comment
REINFORCEBOT_TEST_A=one
export REINFORCEBOT_TEST_B="two"
REINFORCEBOT_TEST_C=from-file
not a pair
`), 0o644))

	t.Setenv("REINFORCEBOT_TEST_C", "from-env")
	t.Setenv("REINFORCEBOT_TEST_A", "")
	os.Unsetenv("REINFORCEBOT_TEST_A")
	t.Setenv("REINFORCEBOT_TEST_B", "")
	os.Unsetenv("REINFORCEBOT_TEST_B")

	loadDotEnv(path)

	assert.Equal(t, "one", os.Getenv("REINFORCEBOT_TEST_A"))
	assert.Equal(t, "two", os.Getenv("REINFORCEBOT_TEST_B"))
	assert.Equal(t, "from-env", os.Getenv("REINFORCEBOT_TEST_C"))

	loadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
}

func resetRunFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		for _, name := range []string{"mode", "target", "region"} {
			runCmd.Flags().Lookup(name).Changed = false
		}
		runMode, runTarget, runRegions = "", 0, nil
	})
}

func TestApplyRunFlags(t *testing.T) {
	t.Run("target follows mode", func(t *testing.T) {
		resetRunFlags(t)
		require.NoError(t, runCmd.Flags().Set("mode", "challenge"))
		require.NoError(t, runCmd.Flags().Set("target", "15"))

		cfg := config.DefaultConfig()
		require.NoError(t, applyRunFlags(runCmd, cfg))
		assert.Equal(t, "challenge", cfg.Mode)
		assert.Equal(t, 15, cfg.Targets.Challenge)
		assert.Equal(t, 11, cfg.Targets.Farm)
	})

	t.Run("regions replace config", func(t *testing.T) {
		resetRunFlags(t)
		require.NoError(t, runCmd.Flags().Set("region", "1,2,300,100"))
		require.NoError(t, runCmd.Flags().Set("region", "1,200,300,100"))

		cfg := config.DefaultConfig()
		cfg.Regions = []models.Region{{X: 9, Y: 9, Width: 50, Height: 50}}
		require.NoError(t, applyRunFlags(runCmd, cfg))
		assert.Equal(t, []models.Region{
			{X: 1, Y: 2, Width: 300, Height: 100},
			{X: 1, Y: 200, Width: 300, Height: 100},
		}, cfg.Regions)
	})

	t.Run("bad mode", func(t *testing.T) {
		resetRunFlags(t)
		require.NoError(t, runCmd.Flags().Set("mode", "3"))
		assert.ErrorIs(t, applyRunFlags(runCmd, config.DefaultConfig()), models.ErrInvalidMode)
	})
}

func TestReport(t *testing.T) {
	cfg := config.DefaultConfig()

	var buf bytes.Buffer
	require.NoError(t, report(&buf, cfg, models.Observation{Text: "획득 검: [+11] 평범한지팡이", Confidence: 91}))
	out := buf.String()
	assert.Contains(t, out, "result:     success")
	assert.Contains(t, out, "level:      11")
	assert.Contains(t, out, "item:       평범한지팡이")
	assert.Contains(t, out, "verdict:    trusted")
	assert.Contains(t, out, "action:     sell")

	buf.Reset()
	require.NoError(t, report(&buf, cfg, models.Observation{Text: "획득 검: [+11] 평범한지팡이", Confidence: 30}))
	assert.Contains(t, buf.String(), "verdict:    low confidence")
	assert.Contains(t, buf.String(), "action:     none")
}
