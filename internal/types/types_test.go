package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUnresolved(t *testing.T) {
	assert.True(t, IsUnresolved("NA"))
	assert.True(t, IsUnresolved("na"))
	assert.True(t, IsUnresolved("  NA1 "))
	assert.True(t, IsUnresolved("NAVY PROMO")) // prefix match, not whole-word

	assert.False(t, IsUnresolved(""))
	assert.False(t, IsUnresolved("N/A"))
	assert.False(t, IsUnresolved("20250701"))
}

func TestAddError(t *testing.T) {
	rec := &PromoRecord{}

	rec.AddError("")
	assert.Empty(t, rec.Errors)

	rec.AddError("Missing Model Code")
	assert.Equal(t, "Missing Model Code", rec.Errors)

	rec.AddError("Invalid Start Date")
	assert.Equal(t, "Missing Model Code, Invalid Start Date", rec.Errors)
}

func TestWBWFlag(t *testing.T) {
	assert.Equal(t, "NO", (&PromoRecord{}).WBWFlag())
	assert.Equal(t, "YES", (&PromoRecord{IsWBW: true}).WBWFlag())
}
