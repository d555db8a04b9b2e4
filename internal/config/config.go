// Package config assembles the shared htclient.Options + logging setup
// that both pkg/htclient's callers and cmd/htget build from, so the CLI
// and any library embedder configure a Client the same way.
//
// Grounded in docker-compose's command-line entrypoints (e.g. ctr/main.go),
// which call logrus.SetLevel/SetFormatter once at startup from a small
// set of flags before constructing the real client/engine.
package config

import (
	"github.com/sirupsen/logrus"

	"github.com/mallardduck/go-htclient/pkg/channel"
	"github.com/mallardduck/go-htclient/pkg/htclient"
	"github.com/mallardduck/go-htclient/pkg/transport"
)

// Config is the flat set of knobs cmd/htget exposes as flags and any
// library caller can also populate directly, mirroring spec.md §6's
// abstract configuration surface.
type Config struct {
	VerifySSL       string // "none", "no-date-check", "normal"
	HTTPVersion     string // "1.0", "1.1"
	CipherSuites    []string
	Proxy           string
	ExpectedServers []transport.ExpectedServer
	HTTPUsernames   []string // "[server:][realm:]user:pass"
	SSLCertificates []string // PEM bundle paths

	PersistentConns bool
	NonBlocking     bool
	ThrottleBytes   int
	ThrottleSeconds float64

	Verbose bool
}

// ConfigureLogging sets the package-wide logrus level from Verbose,
// matching docker-compose's command entrypoints, and returns an entry
// any component can attach fields to.
func ConfigureLogging(cfg Config) *logrus.Entry {
	level := logrus.InfoLevel
	if cfg.Verbose {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
	return logrus.NewEntry(logrus.StandardLogger())
}

// ParseVerifySSL maps the configuration surface's verify_ssl enum onto
// transport.VerifyMode, defaulting to VerifyNormal for an empty or
// unrecognized value.
func ParseVerifySSL(s string) transport.VerifyMode {
	switch s {
	case "none":
		return transport.VerifyNone
	case "no-date-check":
		return transport.VerifyNoDateCheck
	default:
		return transport.VerifyNormal
	}
}

// ParseHTTPVersion maps the configuration surface's http_version enum
// onto channel.HTTPVersion, defaulting to HTTP/1.1.
func ParseHTTPVersion(s string) channel.HTTPVersion {
	if s == "1.0" {
		return channel.HTTP10
	}
	return channel.HTTP11
}

// NewClient builds an htclient.Client from cfg: parsing verify_ssl and
// http_version, loading every configured PEM trust bundle, registering
// expected-server patterns, prefilling the username table from
// http_username entries, and wiring a proxy and throttle if configured.
func NewClient(cfg Config) (*htclient.Client, error) {
	log := ConfigureLogging(cfg)

	var throttle *channel.ThrottleConfig
	if cfg.ThrottleBytes > 0 && cfg.ThrottleSeconds > 0 {
		throttle = &channel.ThrottleConfig{
			BytesPerUpdate:   cfg.ThrottleBytes,
			SecondsPerUpdate: cfg.ThrottleSeconds,
		}
	}

	c := htclient.NewClient(htclient.Options{
		VerifySSL:       ParseVerifySSL(cfg.VerifySSL),
		HTTPVersion:     ParseHTTPVersion(cfg.HTTPVersion),
		CipherSuites:    cfg.CipherSuites,
		ExpectedServers: cfg.ExpectedServers,
		Throttle:        throttle,
		PersistentConns: cfg.PersistentConns,
		NonBlocking:     cfg.NonBlocking,
		Log:             log,
	})

	if len(cfg.SSLCertificates) > 0 {
		if err := c.LoadCertificates(cfg.SSLCertificates...); err != nil {
			return nil, err
		}
	}

	if cfg.Proxy != "" {
		c.AddProxy("", cfg.Proxy)
	}

	for _, spec := range cfg.HTTPUsernames {
		if err := c.AddHTTPUsername(spec); err != nil {
			return nil, err
		}
	}

	return c, nil
}
