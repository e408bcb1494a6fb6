package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("MISTRAL_API_KEY", "mk-test")
	t.Setenv("ELEVENLABS_API_KEY", "xi-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mk-test", cfg.Mistral.APIKey)
	assert.Equal(t, "xi-test", cfg.ElevenLabs.APIKey)
	assert.Equal(t, "eleven_multilingual_v2", cfg.ElevenLabs.Model)
}

func TestLoad_MissingRequiredKey(t *testing.T) {
	// t.Setenv registers the restore; the variable itself must be absent.
	t.Setenv("MISTRAL_API_KEY", "placeholder")
	require.NoError(t, os.Unsetenv("MISTRAL_API_KEY"))
	t.Setenv("ELEVENLABS_API_KEY", "xi-test")

	_, err := Load()
	require.Error(t, err)
}
