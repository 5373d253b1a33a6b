package commands

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/user"

	"github.com/marmos91/gohdfs/internal/logger"
	"github.com/marmos91/gohdfs/pkg/blockcache"
	"github.com/marmos91/gohdfs/pkg/config"
	"github.com/marmos91/gohdfs/pkg/ha"
	"github.com/marmos91/gohdfs/pkg/hdfs"
	"github.com/marmos91/gohdfs/pkg/hdfspath"
	"github.com/marmos91/gohdfs/pkg/metrics"
	"github.com/marmos91/gohdfs/pkg/metrics/prometheus"
	"github.com/marmos91/gohdfs/pkg/nnclient"
	"github.com/marmos91/gohdfs/pkg/telemetry"
)

// session bundles everything one CLI invocation needs to talk to a
// nameservice and is torn down via Close after the command runs.
type session struct {
	cfg      *config.Config
	hdfs     *hdfs.Hdfs
	cache    *blockcache.Cache
	shutdown func(context.Context) error
}

func (s *session) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
	if s.hdfs != nil {
		_ = s.hdfs.Close()
	}
	if s.shutdown != nil {
		_ = s.shutdown(context.Background())
	}
}

// newSession loads configuration, wires logging/telemetry/metrics, and
// dials the nameservice selected by --nameservice (or its config
// default).
func newSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if globalFlags.Verbose {
		level = "DEBUG"
	}
	if err := logger.Init(logger.Config{Level: level, Format: cfg.Logging.Format, Output: cfg.Logging.Output}); err != nil {
		return nil, fmt.Errorf("gohdfs: failed to initialize logging: %w", err)
	}

	var shutdown func(context.Context) error
	if cfg.Telemetry.Enabled {
		shutdown, err = telemetry.Init(ctx, telemetry.Config{
			Enabled:        true,
			ServiceName:    "gohdfs",
			ServiceVersion: Version,
			Endpoint:       cfg.Telemetry.Endpoint,
			Insecure:       cfg.Telemetry.Insecure,
			SampleRate:     cfg.Telemetry.SampleRate,
		})
		if err != nil {
			return nil, fmt.Errorf("gohdfs: failed to initialize tracing: %w", err)
		}
	}

	var rpcMetrics metrics.RPCMetrics
	if cfg.Metrics.Enabled {
		prometheus.Init()
		rpcMetrics = metrics.NewRPCMetrics()
	}

	ns, err := selectNameservice(cfg)
	if err != nil {
		return nil, err
	}

	endpoints := make([]string, len(ns.Namenodes))
	for i, nn := range ns.Namenodes {
		endpoints[i] = nn.RPCAddress
	}

	effectiveUser := cfg.Client.User
	if effectiveUser == "" {
		effectiveUser = osUser()
	}

	conn, err := ha.New(ns.Name, effectiveUser, endpoints)
	if err != nil {
		return nil, err
	}
	conn.SetMetrics(rpcMetrics)

	resolver, err := hdfspath.NewUriResolver(ns.Name, effectiveUser, nil, nil)
	if err != nil {
		return nil, err
	}

	client := nnclient.New(conn)
	cache, err := blockcache.New()
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:      cfg,
		hdfs:     hdfs.New(client, resolver),
		cache:    cache,
		shutdown: shutdown,
	}, nil
}

func loadConfig() (*config.Config, error) {
	path := globalFlags.ConfigPath
	if path == "" {
		path = config.GetDefaultConfigPath()
	}
	return config.Load(path)
}

// selectNameservice resolves --nameservice against the loaded config: an
// explicit flag wins, then the config's sole entry, then a nameservice
// whose name matches DefaultFS's host.
func selectNameservice(cfg *config.Config) (*config.NameserviceConfig, error) {
	if globalFlags.Nameservice != "" {
		for i := range cfg.Nameservices {
			if cfg.Nameservices[i].Name == globalFlags.Nameservice {
				return &cfg.Nameservices[i], nil
			}
		}
		return nil, fmt.Errorf("gohdfs: no nameservice named %q in config", globalFlags.Nameservice)
	}
	if len(cfg.Nameservices) == 1 {
		return &cfg.Nameservices[0], nil
	}
	if cfg.DefaultFS != "" {
		if u, err := url.Parse(cfg.DefaultFS); err == nil && u.Host != "" {
			for i := range cfg.Nameservices {
				if cfg.Nameservices[i].Name == u.Hostname() {
					return &cfg.Nameservices[i], nil
				}
			}
		}
	}
	return nil, fmt.Errorf("gohdfs: multiple nameservices configured; specify one with --nameservice")
}

func osUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "hadoop"
}
