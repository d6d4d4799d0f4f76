package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

func TestGetDefaultConfig_Valid(t *testing.T) {
	cfg := GetDefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, types.StorageProviderMemory, cfg.Storage.Provider)
	assert.Equal(t, 30, cfg.Billing.OverdueAfterDays)
	assert.False(t, cfg.Billing.EscalateOverdue)
}

func TestConfiguration_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Configuration)
		wantErr bool
	}{
		{"unknown mode", func(c *Configuration) { c.Deployment.Mode = "worker" }, true},
		{"unknown provider", func(c *Configuration) { c.Storage.Provider = "dynamodb" }, true},
		{"supabase without credentials", func(c *Configuration) { c.Storage.Provider = types.StorageProviderSupabase }, true},
		{"supabase with credentials", func(c *Configuration) {
			c.Storage.Provider = types.StorageProviderSupabase
			c.Supabase = SupabaseConfig{URL: "https://example.supabase.co", Key: "anon"}
		}, false},
		{"postgres without host", func(c *Configuration) { c.Storage.Provider = types.StorageProviderPostgres }, true},
		{"zero overdue threshold", func(c *Configuration) { c.Billing.OverdueAfterDays = 0 }, true},
		{"negative billing run rate", func(c *Configuration) { c.Billing.BillingRunRateLimit = -1 }, true},
		{"sentry without dsn", func(c *Configuration) { c.Sentry.Enabled = true }, true},
		{"scheduler without cron", func(c *Configuration) { c.Scheduler.BillingRunCron = "" }, true},
		{"scheduler disabled without cron", func(c *Configuration) {
			c.Scheduler.Enabled = false
			c.Scheduler.BillingRunCron = ""
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	c := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "tuition", SSLMode: "disable"}
	assert.Equal(t, "user=u password=p dbname=tuition host=db port=5432 sslmode=disable", c.GetDSN())
}
