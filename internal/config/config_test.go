package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"immobiliare-core/internal/domain/entity"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "PUBLIC_BASE_URL", "GALLERY_POLICY", "HISTORY_WINDOW", "RENOVATE_MAX_PARALLEL", "IMAGE_FETCH_TIMEOUT", "GENERATION_TIMEOUT", "QDRANT_HOST", "OPENAI_MODEL", "HISTORY_TTL", "HISTORY_MAX_SESSIONS"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "8000", cfg.Port)
	require.Equal(t, "http://localhost:8000", cfg.PublicBaseURL)
	require.Equal(t, entity.GalleryCompact, cfg.GalleryPolicy)
	require.Equal(t, 6, cfg.HistoryWindow)
	require.Equal(t, 4, cfg.RenovateMaxParallel)
	require.Equal(t, 10*time.Second, cfg.ImageFetchTimeout)
	require.Equal(t, 120*time.Second, cfg.GenerationTimeout)
	require.Equal(t, "gpt-5-mini", cfg.OpenAIModel)
	require.Equal(t, 24*time.Hour, cfg.HistoryTTL)
	require.Equal(t, 10000, cfg.HistoryMaxSessions)
	require.False(t, cfg.VectorSearchEnabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PUBLIC_BASE_URL", "https://api.example.com/")
	t.Setenv("GALLERY_POLICY", "Placeholder")
	t.Setenv("RENOVATE_MAX_PARALLEL", "2")
	t.Setenv("IMAGE_FETCH_TIMEOUT", "3")
	t.Setenv("GENERATION_TIMEOUT", "90s")
	t.Setenv("QDRANT_HOST", "qdrant")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com", cfg.PublicBaseURL)
	require.Equal(t, entity.GalleryPlaceholder, cfg.GalleryPolicy)
	require.Equal(t, 2, cfg.RenovateMaxParallel)
	require.Equal(t, 3*time.Second, cfg.ImageFetchTimeout)
	require.Equal(t, 90*time.Second, cfg.GenerationTimeout)
	require.True(t, cfg.VectorSearchEnabled())
}

func TestFromEnv_Invalid(t *testing.T) {
	for _, tc := range []struct{ key, value string }{
		{"HISTORY_WINDOW", "six"},
		{"RENOVATE_MAX_PARALLEL", "8"},
		{"GALLERY_POLICY", "fancy"},
		{"GENERATION_TIMEOUT", "soon"},
	} {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := FromEnv()
			require.Error(t, err)
		})
	}
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("OPENAI_MODEL=gpt-from-file\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Setenv("OPENAI_MODEL", "")
	// godotenv never overrides variables already set, even empty ones
	require.NoError(t, os.Unsetenv("OPENAI_MODEL"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "gpt-from-file", cfg.OpenAIModel)
}
