package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodeTaxonomy(t *testing.T) {
	tests := []struct {
		code     string
		category string
	}{
		{LOW001, "semantic"},
		{LOW005, "semantic"},
		{LOW008, "semantic"},
		{LOW011, "semantic"},
		{LOW101, "type"},
		{LOW103, "type"},
		{LOW901, "internal"},
		{LOW902, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			info, exists := GetErrorInfo(tt.code)
			assert.True(t, exists, "code %s not found in registry", tt.code)
			assert.Equal(t, tt.code, info.Code)
			assert.Equal(t, "lower", info.Phase)
			assert.Equal(t, tt.category, info.Category)
		})
	}
}

func TestErrorCategoryCheckers(t *testing.T) {
	assert.True(t, IsSemanticError(LOW001))
	assert.False(t, IsSemanticError(LOW101))

	assert.True(t, IsTypeError(LOW101))
	assert.False(t, IsTypeError(LOW001))

	assert.True(t, IsInternalError(LOW901))
	assert.False(t, IsInternalError(LOW001))
}

func TestAllErrorCodesInRegistry(t *testing.T) {
	allCodes := []string{
		LOW001, LOW002, LOW003, LOW004, LOW005, LOW006, LOW007, LOW008, LOW010, LOW011,
		LOW101, LOW102, LOW103,
		LOW901, LOW902,
	}

	for _, code := range allCodes {
		t.Run(code, func(t *testing.T) {
			_, exists := GetErrorInfo(code)
			assert.True(t, exists, "code %s defined but missing from registry", code)
		})
	}

	assert.GreaterOrEqual(t, len(ErrorRegistry), len(allCodes))
}

func TestErrorInfoConsistency(t *testing.T) {
	for code, info := range ErrorRegistry {
		assert.Equal(t, code, info.Code)
		assert.Len(t, code, 6)
		assert.Equal(t, "lower", info.Phase)
		assert.NotEmpty(t, info.Description)
	}
}
