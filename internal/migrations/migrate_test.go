package migrations

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GizzLda/Excel/internal/db"
)

func TestUpCreatesCatalogSchema(t *testing.T) {
	database, err := db.Open(db.MemoryPath)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, Up(database))
	require.NoError(t, Up(database), "second run must be a no-op")

	version, err := Version(database)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM scenario_presets`).Scan(&count))
	assert.Zero(t, count)
}

func TestUseLoggerCapturesGooseOutput(t *testing.T) {
	var buf bytes.Buffer
	UseLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { goose.SetLogger(goose.NopLogger()) })

	database, err := db.Open(db.MemoryPath)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, Up(database))
	assert.Contains(t, buf.String(), "component=goose")
}
