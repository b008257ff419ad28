package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/podside/evexml"
	"github.com/podside/evexml/internal/config"
)

// Deps holds high-level dependencies for commands. The Session is nil when
// the config carries no key pair; commands that need one must check.
type Deps struct {
	Config  *config.Config
	Client  *evexml.Client
	Session *evexml.Session
}

// withDeps loads config, builds the client and calls the provided function.
func withDeps(fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "getting current directory")
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	log, err := buildLogger(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	client := evexml.NewClient(
		evexml.WithBaseURL(cfg.API.BaseURL),
		evexml.WithTimeout(cfg.API.Timeout()),
		evexml.WithLogger(log),
	)

	deps := &Deps{
		Config: cfg,
		Client: client,
	}
	if cfg.API.KeyID != "" && cfg.API.VCode != "" {
		deps.Session = client.Session(cfg.API.KeyID, cfg.API.VCode)
	}

	return fn(deps)
}

// withSession is withDeps for commands that cannot work without a key pair.
func withSession(fn func(*Deps, *evexml.Session) error) error {
	return withDeps(func(d *Deps) error {
		if d.Session == nil {
			return errors.New("no api key configured (set key_id and v_code in .evexml/config.yaml, or EVEXML_KEY_ID and EVEXML_VCODE)")
		}
		return fn(d, d.Session)
	})
}

// buildLogger constructs a stderr logger at the configured level.
func buildLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing log level %q", level)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	log, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}
	return log.Sugar(), nil
}
