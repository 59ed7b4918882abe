package ising

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateReportsEveryViolation(t *testing.T) {
	cfg := Config{Size: 0, Rho: 1.5, Steps: 0, Params: Params{J: math.NaN(), B: math.Inf(-1), Beta: -1}}
	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	for _, field := range []string{"size", "rho", "steps", "J", "B", "beta"} {
		if !strings.Contains(err.Error(), "invalid "+field+" ") {
			t.Fatalf("expected violation for %s in %q", field, err)
		}
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatal("expected errors.As to find a ConfigError")
	}
}

func TestValidateAcceptsEdgeValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Size = 1
	cfg.Steps = 1
	for _, rho := range []float64{0, 1} {
		cfg.Rho = rho
		cfg.Params.Beta = 0
		if err := cfg.Validate(); err != nil {
			t.Fatalf("rho=%v beta=0 should validate: %v", rho, err)
		}
	}
}

func TestFromMap(t *testing.T) {
	cfg, err := FromMap(map[string]string{
		"n":    "32",
		"rho":  "0.25",
		"J":    "-1",
		"B":    "0.5",
		"b":    "2",
		"S":    "10",
		"seed": "5",
	})
	if err != nil {
		t.Fatal(err)
	}
	want := Config{Size: 32, Rho: 0.25, Steps: 10, Seed: 5, Params: Params{J: -1, B: 0.5, Beta: 2}}
	if cfg != want {
		t.Fatalf("FromMap = %+v, want %+v", cfg, want)
	}
}

func TestFromMapRejectsGarbage(t *testing.T) {
	_, err := FromMap(map[string]string{"size": "big", "temperature": "3"})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), "unknown parameter") {
		t.Fatalf("expected unknown key to be reported: %v", err)
	}
}

func TestNewWithConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rho = 2
	if _, err := NewWithConfig(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
