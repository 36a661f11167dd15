package schedulefile

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	doc := `
blocks:
  - name: Morning
    start: "09:00"
    end: "14:00"
  - name: Afternoon
    start: "16:00"
    end: "20:00"
`
	blocks, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []commands.WorkScheduleBlockInput{
		{Name: "Morning", Start: "09:00", End: "14:00"},
		{Name: "Afternoon", Start: "16:00", End: "20:00"},
	}, blocks)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ""},
		{"no blocks", "blocks: []\n"},
		{"unknown key", "blocks:\n  - name: Morning\n    begin: \"09:00\"\n"},
		{"not yaml", "blocks: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}

	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoBlocks)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	blocks := []commands.WorkScheduleBlockInput{{Name: "Core", Start: "08:30", End: "15:00"}}

	require.NoError(t, Save(path, blocks))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, blocks, loaded)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadAndSave_RejectUnsafePaths(t *testing.T) {
	blocks := []commands.WorkScheduleBlockInput{{Name: "Core", Start: "08:30", End: "15:00"}}

	_, err := Load("schedule.yaml; rm -rf /")
	assert.ErrorIs(t, err, security.ErrForbiddenPath)

	err = Save(filepath.Join(t.TempDir(), "missing", "schedule.yaml"), blocks)
	assert.ErrorIs(t, err, security.ErrForbiddenPath)
}
