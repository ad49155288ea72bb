package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New())

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "en", cfg.UILang)
	assert.Equal(t, "revisionai_session", cfg.Session.Name)
	assert.Equal(t, SessionBackendCookie, cfg.Session.Backend)
	assert.NotEmpty(t, cfg.Session.Secret, "development generates a throwaway secret")
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, AnswerStoreMemory, cfg.AnswerStore.Backend)
	assert.Equal(t, 24*time.Hour, cfg.AnswerStore.TTL)
	assert.Equal(t, int64(32<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, []string{"pdf"}, cfg.Upload.AllowedExtensions)
	assert.False(t, cfg.Upload.RequireSubject)
	assert.Empty(t, cfg.Upload.Subjects)
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("ANSWER_STORE", "Redis")
	t.Setenv("ANSWER_TTL", "2h")
	t.Setenv("REDIS_ADDRESS", "redis:6379")
	t.Setenv("REQUIRE_SUBJECT", "true")
	t.Setenv("SUBJECTS", "History, Biology ,,Maths")
	t.Setenv("ALLOWED_EXTENSIONS", ".PDF")
	t.Setenv("FRONTEND_URL", "http://localhost:5173/")

	cfg, err := Load(viper.New())

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "s3cret", cfg.Session.Secret)
	assert.Equal(t, "key", cfg.Gemini.APIKey)
	assert.Equal(t, AnswerStoreRedis, cfg.AnswerStore.Backend)
	assert.Equal(t, 2*time.Hour, cfg.AnswerStore.TTL)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.True(t, cfg.Upload.RequireSubject)
	assert.Equal(t, []string{"History", "Biology", "Maths"}, cfg.Upload.Subjects)
	assert.Equal(t, []string{"pdf"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, "http://localhost:5173", cfg.FrontendURL)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "production")

	_, err := Load(viper.New())

	assert.ErrorContains(t, err, "SESSION_SECRET")
}

func TestLoad_PostgresRequiresDatabaseURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ANSWER_STORE", "postgres")

	_, err := Load(viper.New())

	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoad_UnknownBackends(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("answer store", func(t *testing.T) {
		t.Setenv("ANSWER_STORE", "memcached")
		_, err := Load(viper.New())
		assert.ErrorContains(t, err, "unknown answer store")
	})

	t.Run("session backend", func(t *testing.T) {
		t.Setenv("SESSION_BACKEND", "file")
		_, err := Load(viper.New())
		assert.ErrorContains(t, err, "unknown session backend")
	})
}

func TestLoad_InvalidUploadLimit(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MAX_UPLOAD_BYTES", "0")

	_, err := Load(viper.New())

	assert.ErrorContains(t, err, "max_upload_bytes")
}

func TestLoad_InvalidAnswerTTL(t *testing.T) {
	for _, ttl := range []string{"0", "0s", "-1h"} {
		t.Run(ttl, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("ANSWER_STORE", "postgres")
			t.Setenv("DATABASE_URL", "postgres://localhost/revisionai")
			t.Setenv("ANSWER_TTL", ttl)

			_, err := Load(viper.New())

			assert.ErrorContains(t, err, "answer_ttl")
		})
	}
}

func TestLoad_BoundValueOverridesDefault(t *testing.T) {
	t.Chdir(t.TempDir())
	v := viper.New()
	v.Set("port", "7000")

	cfg, err := Load(v)

	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList("a, b"))
	assert.Equal(t, []string{"a", "b"}, splitList([]string{" a", "b", ""}))
	assert.Equal(t, []string{"1", "b"}, splitList([]interface{}{1, "b"}))
	assert.Empty(t, splitList(nil))
}
