package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tienda.db", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "local", cfg.ImageStore)
	assert.Equal(t, "./data/images", cfg.ImagesDir)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.False(t, cfg.MailEnabled())
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid local", Config{APIKey: "k", ImageStore: "local"}, false},
		{"valid s3", Config{APIKey: "k", ImageStore: "s3", AWSS3Bucket: "bucket"}, false},
		{"missing api key", Config{ImageStore: "local"}, true},
		{"unknown store", Config{APIKey: "k", ImageStore: "ftp"}, true},
		{"s3 without bucket", Config{APIKey: "k", ImageStore: "s3"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMailEnabled(t *testing.T) {
	assert.False(t, (&Config{}).MailEnabled())
	assert.False(t, (&Config{SMTPHost: "smtp.example.com"}).MailEnabled())
	assert.True(t, (&Config{SMTPHost: "smtp.example.com", MailFrom: "tienda@example.com"}).MailEnabled())
}

func TestEnvironmentPredicates(t *testing.T) {
	assert.True(t, (&Config{GoEnv: "production"}).IsProduction())
	assert.True(t, (&Config{GoEnv: "test"}).IsTest())
	assert.True(t, (&Config{GoEnv: "development"}).IsDevelopment())
	assert.False(t, (&Config{GoEnv: "development"}).IsProduction())
}

func TestConnectDatabaseSqlite(t *testing.T) {
	require.NoError(t, ConnectDatabase(":memory:"))
	require.NotNil(t, GetDB())

	sqlDB, err := GetDB().DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
}
