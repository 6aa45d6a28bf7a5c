package version

import (
	"testing"

	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConfigCompatibility(t *testing.T) {
	tests := []struct {
		name          string
		appVersion    string
		configVersion string
		expectError   bool
		errorContains string
	}{
		{name: "exact match", appVersion: "1.2.0", configVersion: "1.2.0"},
		{name: "config patch higher", appVersion: "1.2.0", configVersion: "1.2.5"},
		{name: "older config minor", appVersion: "1.3.0", configVersion: "1.2.4"},
		{name: "v prefix", appVersion: "v1.2.0", configVersion: "v1.2.0"},
		{name: "empty config version", appVersion: "1.2.0", configVersion: ""},
		{name: "dev app", appVersion: "main", configVersion: "9.9.9"},
		{name: "newer config minor", appVersion: "1.2.0", configVersion: "1.3.0", expectError: true, errorContains: "config requires 1.3.x"},
		{name: "major mismatch", appVersion: "2.0.0", configVersion: "1.2.0", expectError: true, errorContains: "major version mismatch"},
		{name: "invalid config version", appVersion: "1.0.0", configVersion: "latest", expectError: true, errorContains: "invalid config version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConfigCompatibility(tt.appVersion, tt.configVersion)
			if !tt.expectError {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidVersion))
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestSatisfies(t *testing.T) {
	ok, err := Satisfies("v1.4.2", ">= 1.0.0, < 2.0.0")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Satisfies("2.0.0", ">= 1.0.0, < 2.0.0")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Satisfies("1.0.0", "not a constraint")
	assert.Error(t, err)
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, Version, GetVersion())
}
