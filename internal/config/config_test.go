package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitCSV("a, b ,c"))
	assert.Equal(t, []string{"a"}, SplitCSV("a,,   ,"))
	assert.Nil(t, SplitCSV(""))
	assert.Nil(t, SplitCSV(" , "))
}

func TestParseModelLimits(t *testing.T) {
	limits := ParseModelLimits(`{"gemini-2.5-flash":{"rpd":20,"rpm":5},"gemma-3-1b":{"rpd":14400,"rpm":30}}`)
	assert.Equal(t, ModelLimits{RPD: 20, RPM: 5}, limits["gemini-2.5-flash"])
	assert.Equal(t, ModelLimits{RPD: 14400, RPM: 30}, limits["gemma-3-1b"])
}

func TestParseModelLimitsMalformed(t *testing.T) {
	assert.Empty(t, ParseModelLimits(""))
	assert.Empty(t, ParseModelLimits("   "))
	assert.Empty(t, ParseModelLimits("{broken"))
	assert.Empty(t, ParseModelLimits(`["not","a","map"]`))
}

func TestParseModelLimitsClampsNegatives(t *testing.T) {
	limits := ParseModelLimits(`{"m":{"rpd":-3,"rpm":-1}}`)
	assert.Equal(t, ModelLimits{RPD: 0, RPM: 0}, limits["m"])
}

func TestModelAllowed(t *testing.T) {
	cfg := &Config{AllowedModels: []string{"m1", "m2"}}
	assert.True(t, cfg.ModelAllowed("m1"))
	assert.False(t, cfg.ModelAllowed("m3"))
}

func TestSiteCapEnabled(t *testing.T) {
	assert.False(t, (&Config{}).SiteCapEnabled())
	assert.True(t, (&Config{SiteTotalRPD: 5}).SiteCapEnabled())
	assert.True(t, (&Config{SiteTotalRPM: 1}).SiteCapEnabled())
}
