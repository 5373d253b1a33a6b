package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/gohdfs/pkg/config"
)

func TestSelectNameserviceExplicitFlag(t *testing.T) {
	globalFlags.Nameservice = "b"
	defer func() { globalFlags.Nameservice = "" }()

	cfg := &config.Config{Nameservices: []config.NameserviceConfig{
		{Name: "a"}, {Name: "b"}, {Name: "c"},
	}}

	ns, err := selectNameservice(cfg)
	require.NoError(t, err)
	assert.Equal(t, "b", ns.Name)
}

func TestSelectNameserviceExplicitFlagUnknown(t *testing.T) {
	globalFlags.Nameservice = "missing"
	defer func() { globalFlags.Nameservice = "" }()

	cfg := &config.Config{Nameservices: []config.NameserviceConfig{{Name: "a"}}}
	_, err := selectNameservice(cfg)
	assert.Error(t, err)
}

func TestSelectNameserviceSingleEntry(t *testing.T) {
	cfg := &config.Config{Nameservices: []config.NameserviceConfig{{Name: "only"}}}
	ns, err := selectNameservice(cfg)
	require.NoError(t, err)
	assert.Equal(t, "only", ns.Name)
}

func TestSelectNameserviceFromDefaultFS(t *testing.T) {
	cfg := &config.Config{
		DefaultFS: "hdfs://mycluster/user/alice",
		Nameservices: []config.NameserviceConfig{
			{Name: "mycluster"}, {Name: "othercluster"},
		},
	}
	ns, err := selectNameservice(cfg)
	require.NoError(t, err)
	assert.Equal(t, "mycluster", ns.Name)
}

func TestSelectNameserviceAmbiguous(t *testing.T) {
	cfg := &config.Config{Nameservices: []config.NameserviceConfig{{Name: "a"}, {Name: "b"}}}
	_, err := selectNameservice(cfg)
	assert.Error(t, err)
}

func TestOsUserNeverEmpty(t *testing.T) {
	assert.NotEmpty(t, osUser())
}
