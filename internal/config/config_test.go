package config

import (
	"testing"
)

// TestGetString проверяет приоритет: окружение, затем флаг, затем файл.
func TestGetString(t *testing.T) {
	tests := []struct {
		name        string
		envValue    string
		flagValue   string
		configValue string
		want        string
	}{
		{name: "env wins", envValue: "env", flagValue: "flag", configValue: "file", want: "env"},
		{name: "flag over file", envValue: "", flagValue: "flag", configValue: "file", want: "flag"},
		{name: "file as fallback", envValue: "", flagValue: "", configValue: "file", want: "file"},
		{name: "all empty", envValue: "", flagValue: "", configValue: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getString(tt.envValue, tt.flagValue, tt.configValue); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestGetInt проверяет преобразование и приоритет числовых значений.
func TestGetInt(t *testing.T) {
	tests := []struct {
		name        string
		envValue    string
		flagValue   string
		configValue int
		want        int
	}{
		{name: "env wins", envValue: "15", flagValue: "30", configValue: 60, want: 15},
		{name: "invalid env falls back to config", envValue: "abc", flagValue: "", configValue: 60, want: 60},
		{name: "flag over file", envValue: "", flagValue: "30", configValue: 60, want: 30},
		{name: "file as fallback", envValue: "", flagValue: "", configValue: 60, want: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getInt(tt.envValue, tt.flagValue, tt.configValue); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

// TestGetConfigPath проверяет приоритет флага над переменной окружения.
func TestGetConfigPath(t *testing.T) {
	if got := getConfigPath("flag.json", "env.json"); got != "flag.json" {
		t.Errorf("expected flag.json, got %q", got)
	}
	if got := getConfigPath("", "env.json"); got != "env.json" {
		t.Errorf("expected env.json, got %q", got)
	}
}
