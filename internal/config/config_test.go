package config

import (
	"testing"
	"time"
)

func expectPanic(t *testing.T, name string) {
	t.Helper()
	if r := recover(); r == nil {
		t.Errorf("%s should have panicked", name)
	}
}

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		shouldSet bool
		wantPanic bool
	}{
		{name: "variable set", key: "TEST_VAR", value: "test_value", shouldSet: true},
		{name: "variable not set", key: "TEST_VAR_MISSING", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				t.Setenv(tt.key, tt.value)
			}
			if tt.wantPanic {
				defer expectPanic(t, "requireEnv()")
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", value: "30s", def: time.Second, expected: 30 * time.Second},
		{name: "invalid falls back", value: "soon", def: time.Second, expected: time.Second},
		{name: "unset falls back", value: "", def: 2 * time.Minute, expected: 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			if got := mustDuration("TEST_DURATION", tt.def); got != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{name: "true", value: "true", expected: true},
		{name: "numeric false", value: "0", def: true, expected: false},
		{name: "garbage falls back", value: "maybe", def: true, expected: true},
		{name: "unset falls back", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			if got := mustBool("TEST_BOOL", tt.def); got != tt.expected {
				t.Errorf("mustBool() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(` "http://localhost:5173" , ,'https://board.example.com'`)
	want := []string{"http://localhost:5173", "https://board.example.com"}
	if len(got) != len(want) {
		t.Fatalf("splitAndTrim() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitAndTrim()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if splitAndTrim("") != nil {
		t.Error("splitAndTrim(\"\") should be nil")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JOBBOARD_STORE", "")
	t.Setenv("JOBBOARD_LISTEN_PORT", "")
	t.Setenv("JOBBOARD_CORS_ORIGINS", "")

	cfg := Load()
	if cfg.ListenPort != ":5000" {
		t.Errorf("ListenPort = %q, want :5000", cfg.ListenPort)
	}
	if cfg.Store != StoreSQLite || cfg.SQLitePath == "" {
		t.Errorf("Store = %q (%q), want sqlite with a path", cfg.Store, cfg.SQLitePath)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, should stay empty for sqlite", cfg.RedisAddr)
	}
}

func TestLoadRedis(t *testing.T) {
	t.Run("address required", func(t *testing.T) {
		t.Setenv("JOBBOARD_STORE", "redis")
		t.Setenv("JOBBOARD_REDIS_ADDR", "")
		defer expectPanic(t, "Load()")
		Load()
	})

	t.Run("configured", func(t *testing.T) {
		t.Setenv("JOBBOARD_STORE", "Redis")
		t.Setenv("JOBBOARD_REDIS_ADDR", "localhost:6379")
		t.Setenv("JOBBOARD_REDIS_DB", "2")
		t.Setenv("JOBBOARD_REDIS_POOL_SIZE", "4")
		t.Setenv("JOBBOARD_REDIS_REPAIR_INTERVAL", "0")

		cfg := Load()
		if cfg.Store != StoreRedis || cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 2 || cfg.RedisPoolSize != 4 || cfg.RedisRepairInterval != 0 {
			t.Errorf("Load() = %+v", cfg)
		}
	})

	t.Run("password required", func(t *testing.T) {
		t.Setenv("JOBBOARD_STORE", "redis")
		t.Setenv("JOBBOARD_REDIS_ADDR", "localhost:6379")
		t.Setenv("JOBBOARD_REDIS_PASSWORD_REQUIRED", "true")
		t.Setenv("JOBBOARD_REDIS_PASSWORD", "")
		defer expectPanic(t, "Load()")
		Load()
	})
}

func TestLoadUnknownStore(t *testing.T) {
	t.Setenv("JOBBOARD_STORE", "postgres")
	defer expectPanic(t, "Load()")
	Load()
}
