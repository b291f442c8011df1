package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recallr/internal/config"
	"github.com/at-ishikawa/recallr/internal/memory"
	"github.com/at-ishikawa/recallr/internal/testutil"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantLevel slog.Level
	}{
		{
			name:      "debug mode enabled",
			debugMode: true,
			wantLevel: slog.LevelDebug,
		},
		{
			name:      "debug mode disabled",
			debugMode: false,
			wantLevel: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			logger := slog.Default()
			assert.NotNil(t, logger)
			assert.Equal(t, tt.wantLevel <= slog.LevelDebug, logger.Enabled(nil, slog.LevelDebug))
		})
	}
}

func TestDifficultyFlag(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    memory.Difficulty
		wantErr bool
	}{
		{name: "easy", value: "easy", want: memory.DifficultyEasy},
		{name: "case insensitive", value: "HARD", want: memory.DifficultyHard},
		{name: "unknown", value: "brutal", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := difficultyFlag(memory.DifficultyMedium)
			err := d.Set(tt.value)
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid difficulty")
				assert.Equal(t, "medium", d.String())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, string(tt.want), d.String())
			assert.Equal(t, "difficulty", d.Type())
		})
	}
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()
	assert.Equal(t, "recallr", cmd.Use)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{
		"item", "review", "schedule", "plan", "urgent", "forgotten", "today",
		"priority", "predict", "stats", "remind", "migrate",
	})
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	oldConfigFile := configFile
	t.Cleanup(func() { configFile = oldConfigFile })

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCommands_YAMLStorage(t *testing.T) {
	dir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, dir)

	out, err := execute(t, "--config", cfgPath, "item", "add", "hola", "que", "tal", "--category", "spanish", "--difficulty", "easy")
	require.NoError(t, err)
	assert.Contains(t, out, "Added #")

	loader, err := config.NewConfigLoader(cfgPath)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)
	items, err := memory.NewYAMLRepository(cfg.Storage.YAMLDirectory).FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "hola que tal", items[0].Content)
	assert.Equal(t, memory.DifficultyEasy, items[0].Difficulty)
	assert.Len(t, items[0].Intervals, 7)
	id := fmt.Sprint(items[0].ID)

	out, err = execute(t, "--config", cfgPath, "item", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "hola que tal")

	out, err = execute(t, "--config", cfgPath, "review", id, "--success", "--response-time", "2s")
	require.NoError(t, err)
	assert.Contains(t, out, "remembered")

	out, err = execute(t, "--config", cfgPath, "stats", "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "spanish")

	_, err = execute(t, "--config", cfgPath, "plan", "--save")
	require.NoError(t, err)
	matches, err := filepath.Glob(filepath.Join(dir, "plans", "plan-*.md"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	out, err = execute(t, "--config", cfgPath, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "YAML storage needs no migration")

	out, err = execute(t, "--config", cfgPath, "item", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted #"+id)

	_, err = execute(t, "--config", cfgPath, "item", "delete", id)
	assert.ErrorIs(t, err, memory.ErrItemNotFound)
}

func TestCommands_InvalidArguments(t *testing.T) {
	cfgPath := testutil.SetupTestConfig(t, t.TempDir())

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "review needs exactly one outcome",
			args:    []string{"review", "1"},
			wantErr: "exactly one of --success or --failure",
		},
		{
			name:    "review rejects both outcomes",
			args:    []string{"review", "1", "--success", "--failure"},
			wantErr: "exactly one of --success or --failure",
		},
		{
			name:    "invalid id",
			args:    []string{"item", "delete", "abc"},
			wantErr: "invalid item id",
		},
		{
			name:    "invalid difficulty",
			args:    []string{"item", "add", "x", "--difficulty", "brutal"},
			wantErr: "invalid difficulty",
		},
		{
			name:    "month without year",
			args:    []string{"stats", "activity", "--month", "3"},
			wantErr: "--month requires --year",
		},
		{
			name:    "month out of range",
			args:    []string{"stats", "activity", "--year", "2025", "--month", "13"},
			wantErr: "--month must be between 1 and 12",
		},
		{
			name:    "non-positive prediction days",
			args:    []string{"predict", "--days", "0"},
			wantErr: "--days must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"--config", cfgPath}, tt.args...)...)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestCommands_BrokenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [broken"), 0644))

	_, err := execute(t, "--config", path, "item", "list")
	assert.ErrorContains(t, err, "could not be read")
}

func TestNewNotifiers(t *testing.T) {
	cfg := &config.Config{}
	assert.Empty(t, newNotifiers(cfg, memory.SystemClock))

	cfg.Notify.Console = true
	cfg.Notify.Webhook.URL = "https://hooks.example.com/recallr"
	assert.Len(t, newNotifiers(cfg, memory.SystemClock), 2)
}

func TestCommands_Reports(t *testing.T) {
	dir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, dir)
	now := time.Now()
	testutil.CreateItems(t, testutil.ItemsDirectory(dir),
		testutil.NewItem(1, "overdue word", now.Add(-3*time.Hour), testutil.WithNextReviewAt(now.Add(-time.Hour))),
		testutil.NewItem(2, "fresh word", now, testutil.WithDifficulty(memory.DifficultyEasy)),
	)

	tests := []struct {
		name      string
		args      []string
		wantParts []string
	}{
		{name: "forgotten", args: []string{"forgotten"}, wantParts: []string{"overdue word"}},
		{name: "priority", args: []string{"priority", "--limit", "1"}, wantParts: []string{"overdue word"}},
		{name: "predict", args: []string{"predict", "--days", "3"}, wantParts: []string{now.AddDate(0, 0, 3).Format("2006-01-02")}},
		{name: "weekly", args: []string{"stats", "weekly"}, wantParts: []string{"Learned:           2"}},
		{name: "schedule", args: []string{"schedule"}, wantParts: []string{"Rescheduled 2 of 2 items"}},
		{name: "remind once", args: []string{"remind", "--once"}, wantParts: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"--config", cfgPath}, tt.args...)...)
			require.NoError(t, err)
			for _, part := range tt.wantParts {
				assert.Contains(t, out, part)
			}
		})
	}
}
