package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WORDPRESS_GRAPHQL_ENDPOINT", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("CMS_HTML_POLICY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.HTTP.Port)
	assert.Equal(t, defaultCacheTTL, cfg.CMS.CacheTTL)
	assert.Equal(t, "trust", cfg.CMS.HTMLPolicy)

	_, err = cfg.CMS.RequireEndpoint()
	assert.True(t, errors.Is(err, ErrMissingEndpoint))
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WORDPRESS_GRAPHQL_ENDPOINT", " http://cms.local/graphql ")
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("CMS_CACHE_TTL", "5m")
	t.Setenv("CMS_HTML_POLICY", "UGC")
	t.Setenv("SITE_BASE_URL", "https://example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	endpoint, err := cfg.CMS.RequireEndpoint()
	require.NoError(t, err)
	assert.Equal(t, "http://cms.local/graphql", endpoint)
	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Minute, cfg.CMS.CacheTTL)
	assert.Equal(t, "ugc", cfg.CMS.HTMLPolicy)
	assert.Equal(t, "https://example.com", cfg.Site.BaseURL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("port", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "70000")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("duration", func(t *testing.T) {
		t.Setenv("SERVER_READ_TIMEOUT", "soon")
		_, err := Load()
		assert.ErrorContains(t, err, "SERVER_READ_TIMEOUT")
	})
	t.Run("html policy", func(t *testing.T) {
		t.Setenv("CMS_HTML_POLICY", "none")
		_, err := Load()
		assert.ErrorContains(t, err, "CMS_HTML_POLICY")
	})
}
