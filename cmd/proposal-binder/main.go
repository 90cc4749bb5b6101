package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/geoirb/proposal-binder/internal/binding"
	"github.com/geoirb/proposal-binder/internal/config"
	"github.com/geoirb/proposal-binder/internal/docx"
	"github.com/geoirb/proposal-binder/internal/format"
	"github.com/geoirb/proposal-binder/internal/parser"
	"github.com/geoirb/proposal-binder/internal/path"
	"github.com/geoirb/proposal-binder/internal/placeholder"
	"github.com/geoirb/proposal-binder/internal/qrcode"
	"github.com/geoirb/proposal-binder/internal/recent"
	"github.com/geoirb/proposal-binder/internal/response"
	"github.com/geoirb/proposal-binder/internal/templater"
	"github.com/geoirb/proposal-binder/internal/templater/transport"
	"github.com/geoirb/proposal-binder/internal/xlsx"
)

type configuration struct {
	Config      string `envconfig:"CONFIG"`
	TemplateDir string `envconfig:"TEMPLATE_DIR"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"warn"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"logfmt"`

	RecentFile  string `envconfig:"RECENT_FILE"`
	RecentLimit int    `envconfig:"RECENT_LIMIT" default:"10"`
}

const (
	prefixCfg   = "BINDER"
	serviceName = "proposal-binder"
)

var errLogFormat = errors.New("unknown log format")

// app holds the components shared by commands.
type app struct {
	svc       templater.Service
	store     *recent.Store
	transport *transport.Transport
	logger    log.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger(format, lvl string) (logger log.Logger, err error) {
	switch format {
	case "json":
		logger = log.NewJSONLogger(log.NewSyncWriter(os.Stderr))
	case "logfmt", "":
		logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	default:
		err = fmt.Errorf("%w: %s", errLogFormat, format)
		return
	}
	logger = log.WithPrefix(logger, "service", serviceName)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	var option level.Option
	switch lvl {
	case "debug":
		option = level.AllowDebug()
	case "info":
		option = level.AllowInfo()
	case "warn", "":
		option = level.AllowWarn()
	case "error":
		option = level.AllowError()
	case "none":
		option = level.AllowNone()
	default:
		err = fmt.Errorf("unknown log level: %s", lvl)
		return
	}
	return level.NewFilter(logger, option), nil
}

// newApp reads the environment and the mapping file and wires the components.
// configFile overrides BINDER_CONFIG when not empty.
func newApp(configFile string) (*app, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg configuration
	if err := envconfig.Process(prefixCfg, &cfg); err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}
	if configFile != "" {
		cfg.Config = configFile
	}

	logger, err := newLogger(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	level.Info(logger).Log("msg", "initialization", "config", cfg.Config)

	bindings, err := config.Load(cfg.Config)
	if err != nil {
		level.Error(logger).Log("msg", "mapping config", "err", err)
		return nil, err
	}

	parser, err := parser.New()
	if err != nil {
		level.Error(logger).Log("msg", "parser init", "err", err)
		return nil, err
	}

	placeholder, err := placeholder.New()
	if err != nil {
		level.Error(logger).Log("msg", "placeholder init", "err", err)
		return nil, err
	}

	table, err := bindings.Table(placeholder)
	if err != nil {
		level.Error(logger).Log("msg", "mapping table", "err", err)
		return nil, err
	}

	formatter, err := format.NewFormatter(bindings.Locale)
	if err != nil {
		level.Error(logger).Log("msg", "formatter init", "err", err)
		return nil, err
	}

	path, err := path.NewBuilder(
		cfg.TemplateDir,
		func() string { return uuid.New().String() },
	)
	if err != nil {
		level.Error(logger).Log("msg", "path init", "err", err)
		return nil, err
	}

	recentFile := cfg.RecentFile
	if recentFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = os.TempDir()
		}
		recentFile = filepath.Join(dir, serviceName, "recent.yaml")
	}
	store := recent.NewStore(recentFile, cfg.RecentLimit, path, logger)

	svc := templater.NewService(
		table,
		xlsx.NewExtractor(bindings.Sheet, parser, logger),
		docx.NewScanner(parser, placeholder, logger),
		binding.NewResolver(formatter, logger),
		docx.NewWriter(bindings.Fallback, parser, placeholder, path, qrcode.NewCreator(), logger),
		path,
		store,
		logger,
	)

	return &app{
		svc:       svc,
		store:     store,
		transport: transport.NewTransport(response.Build),
		logger:    logger,
	}, nil
}
