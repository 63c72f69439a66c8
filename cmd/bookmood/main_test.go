package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MOOD_TIMEZONE", "UTC")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--backend", "sqlite", "--sqlite-path", dbPath, "--log-mode", "nop"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCartCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "bookmood.db")

	out, err := run(t, db, "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "empty")

	out, err = run(t, db, "cart", "add", "2", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Atomic Habits")
	assert.Contains(t, out, "2 items, total $37.98")

	// state survives between invocations
	out, err = run(t, db, "cart", "add", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "3 items, total $48.97")

	out, err = run(t, db, "cart", "set", "2", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "2 items, total $29.98")

	out, err = run(t, db, "cart", "remove", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "1 items, total $18.99")

	out, err = run(t, db, "cart", "checkout")
	require.NoError(t, err)
	assert.Contains(t, out, "Total:    $20.51")

	out, err = run(t, db, "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "empty")
}

func TestCartCommands_Errors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "bookmood.db")

	_, err := run(t, db, "cart", "add", "does-not-exist")
	assert.ErrorContains(t, err, "book not found")

	// "Educated" is out of stock in the seed catalog
	_, err = run(t, db, "cart", "add", "6")
	assert.ErrorContains(t, err, "in stock")

	_, err = run(t, db, "cart", "add", "2", "zero")
	assert.ErrorContains(t, err, "invalid quantity")

	_, err = run(t, db, "cart", "add", "2", "0")
	assert.ErrorContains(t, err, "at least 1")

	_, err = run(t, db, "cart", "checkout")
	assert.ErrorContains(t, err, "empty")
}

func TestMoodCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "bookmood.db")

	out, err := run(t, db, "mood", "record", "3", "long", "day")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded 3 (Neutral)")

	_, err = run(t, db, "mood", "record", "5")
	require.NoError(t, err)

	_, err = run(t, db, "mood", "record", "7")
	assert.ErrorContains(t, err, "between 1 and 5")

	out, err = run(t, db, "mood", "trend", "--days", "3")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], "4.00  Happy (2)")
	assert.True(t, strings.HasSuffix(lines[0], "-"))
}

func TestVersion(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version", "--short"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "dev\n", out.String())
}

func TestUnknownBackend(t *testing.T) {
	_, err := run(t, filepath.Join(t.TempDir(), "x.db"), "--backend", "floppy", "cart", "show")
	assert.ErrorContains(t, err, "unknown storage backend")
}
