package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariants(t *testing.T) {
	tests := []struct {
		name string
		set  Set
		want []Capability
		str  string
	}{
		{"bare", VariantBare, nil, "none"},
		{"updater", VariantUpdater, []Capability{Updater, Process}, "updater,process"},
		{"full", VariantFull, []Capability{Updater, Process, Filesystem, Dialog}, "updater,process,fs,dialog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.set.Capabilities())
			assert.Equal(t, tt.str, tt.set.String())
		})
	}
}

func TestSetHas(t *testing.T) {
	assert.True(t, VariantUpdater.Has(Updater))
	assert.True(t, VariantUpdater.Has(Process))
	assert.False(t, VariantUpdater.Has(Filesystem))
	assert.False(t, VariantBare.Has(Dialog))
}

func TestCapabilityString(t *testing.T) {
	assert.Equal(t, "updater", Updater.String())
	assert.Equal(t, "process", Process.String())
	assert.Equal(t, "fs", Filesystem.String())
	assert.Equal(t, "dialog", Dialog.String())
	assert.Equal(t, "unknown", Capability(0).String())
}
