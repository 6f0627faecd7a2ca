package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsPulse/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		configPathEnv, queryEnv, newsAPIKeyEnv, scorerAPIKeyEnv, databaseDSNEnv,
		telegramTokenEnv, telegramChatIDEnv, logLevelEnv,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Sweden", cfg.Search.Query)
	assert.Equal(t, "popularity", cfg.Search.SortBy)
	assert.Equal(t, 100, cfg.Search.PageSize)
	assert.Equal(t, 1, cfg.Search.MaxPages, "one page of 100 stays within the developer tier")
	assert.Equal(t, 5, cfg.Search.WindowDays)
	assert.Equal(t, "lexicon", cfg.Scorer.Kind)
	assert.Equal(t, time.UTC, cfg.Scheduler.Location())

	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
	assert.Equal(t, "search.apiKey", cfgErr.Field)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "newspulse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
search:
  apiKey: from-file
  query: Norway
  windowDays: 7
  timeout: 5s
scheduler:
  interval: 6h
  timezone: Europe/Stockholm
store:
  path: /tmp/summary.csv
`), 0o600))

	t.Setenv(newsAPIKeyEnv, "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Search.APIKey)
	assert.Equal(t, "Norway", cfg.Search.Query)
	assert.Equal(t, 7, cfg.Search.WindowDays)
	assert.Equal(t, 5*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 100, cfg.Search.PageSize, "unset fields keep defaults")
	assert.Equal(t, 6*time.Hour, cfg.Scheduler.Interval)
	assert.Equal(t, "Europe/Stockholm", cfg.Scheduler.Location().String())
	assert.Equal(t, "/tmp/summary.csv", cfg.Store.Path)
	require.NoError(t, cfg.Validate())
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search: [unterminated"), 0o600))

	_, err := Load(path)
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "tz.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scheduler:\n  timezone: Mars/Olympus\n"), 0o600))

	_, err := Load(path)
	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "scheduler.timezone", cfgErr.Field)
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	base, err := Load("")
	require.NoError(t, err)
	base.Search.APIKey = "key"
	require.NoError(t, base.Validate())

	cases := map[string]func(c *Config){
		"search.pageSize":        func(c *Config) { c.Search.PageSize = 101 },
		"search.windowDays":      func(c *Config) { c.Search.WindowDays = 0 },
		"search.concurrency":     func(c *Config) { c.Search.Concurrency = 0 },
		"scorer.inferenceUrl":    func(c *Config) { c.Scorer.Kind = "remote" },
		"scorer.kind":            func(c *Config) { c.Scorer.Kind = "vader" },
		"store.path":             func(c *Config) { c.Store.Path = " " },
		"notifications.telegram": func(c *Config) { c.Notifications.Telegram.BotToken = "token" },
	}

	for field, mutate := range cases {
		cfg := base
		mutate(&cfg)

		var cfgErr *domain.ConfigurationError
		require.ErrorAs(t, cfg.Validate(), &cfgErr, field)
		assert.Equal(t, field, cfgErr.Field)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.Unsetenv(newsAPIKeyEnv))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NEWS_API_KEY=dotenv-key\n"), 0o600))

	require.NoError(t, LoadEnvFile(path))
	t.Cleanup(func() { _ = os.Unsetenv(newsAPIKeyEnv) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv-key", cfg.Search.APIKey)

	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
}
