package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDRESS", "DB_DRIVER", "DB_URL", "SQLITE_PATH", "KAFKA_BROKERS",
		"KAFKA_TOPIC", "PUBLISH_TIMEOUT", "CORS_ORIGINS", "USER_HEADER"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	require.Equal(t, ":8080", cfg.HTTPAddress)
	require.Equal(t, DriverPostgres, cfg.DBDriver)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, "energy-ledger.events", cfg.KafkaTopic)
	require.Equal(t, 5*time.Second, cfg.PublishTimeout)
	require.Equal(t, "X-User-ID", cfg.UserHeader)
	require.Len(t, cfg.CORSOrigins, 2)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/ledger.db")
	t.Setenv("KAFKA_BROKERS", " kafka-1:9092, ,kafka-2:9092 ")
	t.Setenv("PUBLISH_TIMEOUT", "250ms")
	t.Setenv("CORS_ORIGINS", "https://app.example.com")

	cfg := Load()
	require.Equal(t, DriverSQLite, cfg.DBDriver)
	require.Equal(t, "/tmp/ledger.db", cfg.SQLitePath)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, 250*time.Millisecond, cfg.PublishTimeout)
	require.Equal(t, []string{"https://app.example.com"}, cfg.CORSOrigins)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"postgres with url", Config{DBDriver: DriverPostgres, DBURL: "postgres://x"}, false},
		{"postgres without url", Config{DBDriver: DriverPostgres}, true},
		{"sqlite without path", Config{DBDriver: DriverSQLite}, true},
		{"unknown driver", Config{DBDriver: "mysql", DBURL: "x"}, true},
		{"brokers without topic", Config{DBDriver: DriverSQLite, SQLitePath: "x", KafkaBrokers: []string{"k:9092"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
