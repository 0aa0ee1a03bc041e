package config

import (
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		wantPanic bool
	}{
		{name: "variable set", key: "TEST_VAR", value: "test_value"},
		{name: "variable not set", key: "TEST_VAR_MISSING", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestRequireEnvInt(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		expected  int
		wantPanic bool
	}{
		{name: "valid integer", key: "TEST_INT", value: "42", expected: 42},
		{name: "invalid integer", key: "TEST_INT_INVALID", value: "not_a_number", wantPanic: true},
		{name: "missing variable", key: "TEST_INT_MISSING", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnvInt() should have panicked")
					}
				}()
			}

			result := requireEnvInt(tt.key)
			if !tt.wantPanic && result != tt.expected {
				t.Errorf("requireEnvInt() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single value", input: "value1", expected: []string{"value1"}},
		{name: "spaces and quotes", input: ` "a" , 'b',, c `, expected: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndTrim() length = %v, want %v", len(result), len(tt.expected))
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", key: "TEST_DURATION", value: "5s", def: time.Second, expected: 5 * time.Second},
		{name: "invalid duration uses default", key: "TEST_DURATION_INVALID", value: "invalid", def: 10 * time.Second, expected: 10 * time.Second},
		{name: "missing variable uses default", key: "TEST_DURATION_MISSING", def: 15 * time.Second, expected: 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}
			if result := mustDuration(tt.key, tt.def); result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", key: "TEST_BOOL", value: "true", expected: true},
		{name: "false value", key: "TEST_BOOL_FALSE", value: "false", def: true, expected: false},
		{name: "invalid value uses default", key: "TEST_BOOL_INVALID", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", key: "TEST_BOOL_MISSING", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}
			if result := mustBool(tt.key, tt.def); result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HAVEN_STORAGE", "")
	t.Setenv("HAVEN_LOG_LEVEL", "error")

	cfg := Load()

	if cfg.Storage != StorageSQLite {
		t.Errorf("Storage = %q, want %q", cfg.Storage, StorageSQLite)
	}
	if cfg.FaviconService != DefaultFaviconService {
		t.Errorf("FaviconService = %q, want default", cfg.FaviconService)
	}
	if cfg.HomepageBookmarks != "" {
		t.Errorf("HomepageBookmarks should be empty by default, got %q", cfg.HomepageBookmarks)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr should not be read for sqlite backend, got %q", cfg.RedisAddr)
	}
}

func TestLoadPanics(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown backend", env: map[string]string{"HAVEN_STORAGE": "etcd"}},
		{name: "redis without addr", env: map[string]string{"HAVEN_STORAGE": "redis"}},
		{name: "favicon template without placeholder", env: map[string]string{
			"HAVEN_STORAGE":         "memory",
			"HAVEN_FAVICON_SERVICE": "https://icons.example.com/",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HAVEN_REDIS_ADDR", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("Load() should have panicked")
				}
			}()
			_ = Load()
		})
	}
}
