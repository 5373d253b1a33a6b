package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range GetRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"ls", "stat", "mkdir", "mv", "rm", "df", "config", "serve-metrics", "version", "completion"} {
		assert.True(t, names[want], "expected subcommand %q to be registered", want)
	}
}
