package schedule

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/planify/adapter/cli"
	internalApp "github.com/felixgeelhaar/planify/internal/app"
	"github.com/felixgeelhaar/planify/internal/scheduling/infrastructure/schedulefile"
	"github.com/felixgeelhaar/planify/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupLocalModeTestApp creates a test application with SQLite.
func setupLocalModeTestApp(t *testing.T) {
	t.Helper()

	cfg := &config.Config{
		AppEnv:       "test",
		SQLitePath:   filepath.Join(t.TempDir(), "test.db"),
		LockBackend:  "memory",
		MailProvider: "noop",
	}
	container, err := internalApp.NewContainer(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	cli.SetApp(cli.NewApp(container))
	t.Cleanup(func() { cli.SetApp(nil) })
}

func TestScheduleConfigureAndShow(t *testing.T) {
	setupLocalModeTestApp(t)
	dir := t.TempDir()

	file := filepath.Join(dir, "schedule.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`blocks:
  - name: Afternoon
    start: "16:00"
    end: "20:00"
  - name: Morning
    start: "09:00"
    end: "14:00"
`), 0o600))

	var out bytes.Buffer
	configureCmd.SetOut(&out)
	configureCmd.SetContext(context.Background())
	require.NoError(t, configureCmd.Flags().Set("file", file))
	require.NoError(t, configureCmd.RunE(configureCmd, nil))
	assert.Contains(t, out.String(), "configured with 2 blocks")

	saved := filepath.Join(dir, "saved.yaml")
	out.Reset()
	showCmd.SetOut(&out)
	showCmd.SetContext(context.Background())
	require.NoError(t, showCmd.Flags().Set("save", saved))
	require.NoError(t, showCmd.RunE(showCmd, nil))
	assert.Contains(t, out.String(), "09:00 - 14:00  Morning")
	assert.Contains(t, out.String(), "16:00 - 20:00  Afternoon")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("Morning")), bytes.Index(out.Bytes(), []byte("Afternoon")))

	blocks, err := schedulefile.Load(saved)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "Morning", blocks[0].Name)

	// A second configuration is refused.
	require.Error(t, configureCmd.RunE(configureCmd, nil))
}

func TestScheduleConfigureRequiresFile(t *testing.T) {
	setupLocalModeTestApp(t)

	cmd := configureCmd
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.Flags().Set("file", ""))
	err := cmd.RunE(cmd, nil)
	assert.EqualError(t, err, "--file is required")
}
