package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"store": map[string]any{
			"onLoadError": "fail",
			"bucketURL":   "",
			"atomicWrite": false,
		},
		"pubsub": map[string]any{
			"topicId": "",
		},
		"http": map[string]any{
			"maxRequestBodySize": "100KB",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "STORE_ONLOADERROR", want: "store.onLoadError"},
		{envKey: "STORE_BUCKETURL", want: "store.bucketURL"},
		{envKey: "STORE_ATOMICWRITE", want: "store.atomicWrite"},
		{envKey: "PUBSUB_TOPICID", want: "pubsub.topicId"},
		{envKey: "HTTP_MAXREQUESTBODYSIZE", want: "http.maxRequestBodySize"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.applyDefaults())

	assert.Equal(t, defaultHost, cfg.HTTP.Host)
	assert.Equal(t, defaultPort, cfg.HTTP.Port)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, StoreDriverFile, cfg.Store.Driver)
	assert.Equal(t, defaultStorePath, cfg.Store.Path)
	assert.Equal(t, OnLoadErrorFail, cfg.Store.OnLoadError)
	assert.Equal(t, defaultHost, cfg.Worker.Host)
	assert.Equal(t, defaultWorkerPort, cfg.Worker.Port)
}

func TestApplyDefaults_RejectsUnknownSettings(t *testing.T) {
	tests := []struct {
		name  string
		store StoreConfig
	}{
		{name: "unknown driver", store: StoreConfig{Driver: "sqlite"}},
		{name: "blob without bucket", store: StoreConfig{Driver: StoreDriverBlob}},
		{name: "unknown policy", store: StoreConfig{OnLoadError: "ignore"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Store: tt.store}
			assert.Error(t, cfg.applyDefaults())
		})
	}
}

func TestLoadWithEnv_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	content := []byte("http:\n  port: 3000\nstore:\n  path: db/users.json\n  onLoadError: fail\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), content, 0o644))

	t.Chdir(dir)
	t.Setenv("STORE_ONLOADERROR", "empty")
	t.Setenv("HTTP_PORT", "8081")

	cfg, err := LoadWithEnv[Config]("test")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.Equal(t, "db/users.json", cfg.Store.Path)
	assert.Equal(t, OnLoadErrorEmpty, cfg.Store.OnLoadError)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("absent")
	assert.Error(t, err)
}
