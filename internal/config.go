package internal

import (
	"flag"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	RunAddress        = "RUN_ADDRESS"
	DatabaseURI       = "DATABASE_URI"
	IDSource          = "ID_SOURCE"
	RefundMetadata    = "REFUND_METADATA"
	LegacyResponses   = "LEGACY_RESPONSES"
	StrictTransitions = "STRICT_TRANSITIONS"
	MultiItemPolicy   = "MULTI_ITEM_POLICY"
	LogLevel          = "LOG_LEVEL"
	ConfigPath        = "CONFIG_PATH"
)

const (
	defaultRunAddress      = "localhost:5000"
	defaultDatabaseURI     = "file:orders.db"
	defaultIDSource        = IDSourceClient
	defaultMultiItemPolicy = MultiItemFirst
	defaultLogLevel        = "info"
)

const (
	IDSourceClient = "client"
	IDSourceAuto   = "auto"

	MultiItemFirst  = "first"
	MultiItemReject = "reject"
)

type Config struct {
	RunAddress        string `yaml:"run_address"`
	DatabaseURI       string `yaml:"database_uri"`
	IDSource          string `yaml:"id_source"`
	RefundMetadata    bool   `yaml:"refund_metadata"`
	LegacyResponses   bool   `yaml:"legacy_responses"`
	StrictTransitions bool   `yaml:"strict_transitions"`
	MultiItemPolicy   string `yaml:"multi_item_policy"`
	LogLevel          string `yaml:"log_level"`
}

func defaultConfig() Config {
	return Config{
		RunAddress:      defaultRunAddress,
		DatabaseURI:     defaultDatabaseURI,
		IDSource:        defaultIDSource,
		RefundMetadata:  true,
		MultiItemPolicy: defaultMultiItemPolicy,
		LogLevel:        defaultLogLevel,
	}
}

// NewConfig resolves settings as flag > env > yaml file > default.
func NewConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("orderrelay", flag.ContinueOnError)
	path := fs.String("c", os.Getenv(ConfigPath), "path to yaml config file")

	var flags Config
	fs.StringVar(&flags.RunAddress, "a", "", "host to listen on")
	fs.StringVar(&flags.DatabaseURI, "d", "", "database uri, sqlite file or postgres url")
	fs.StringVar(&flags.IDSource, "id-source", "", "where order ids come from: client or auto")
	fs.BoolVar(&flags.RefundMetadata, "refund-metadata", true, "store refund amount, reason and date")
	fs.BoolVar(&flags.LegacyResponses, "legacy", false, "omit id and status from poller responses")
	fs.BoolVar(&flags.StrictTransitions, "strict", false, "reject out of order status transitions")
	fs.StringVar(&flags.MultiItemPolicy, "multi-item", "", "what to do with extra items: first or reject")
	fs.StringVar(&flags.LogLevel, "log-level", "", "log level")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	c := defaultConfig()
	if *path != "" {
		if err := c.loadFile(*path); err != nil {
			return nil, err
		}
	}

	setStringFromEnv(&c.RunAddress, RunAddress)
	setStringFromEnv(&c.DatabaseURI, DatabaseURI)
	setStringFromEnv(&c.IDSource, IDSource)
	setStringFromEnv(&c.MultiItemPolicy, MultiItemPolicy)
	setStringFromEnv(&c.LogLevel, LogLevel)
	if err := setBoolFromEnv(&c.RefundMetadata, RefundMetadata); err != nil {
		return nil, err
	}
	if err := setBoolFromEnv(&c.LegacyResponses, LegacyResponses); err != nil {
		return nil, err
	}
	if err := setBoolFromEnv(&c.StrictTransitions, StrictTransitions); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			c.RunAddress = flags.RunAddress
		case "d":
			c.DatabaseURI = flags.DatabaseURI
		case "id-source":
			c.IDSource = flags.IDSource
		case "refund-metadata":
			c.RefundMetadata = flags.RefundMetadata
		case "legacy":
			c.LegacyResponses = flags.LegacyResponses
		case "strict":
			c.StrictTransitions = flags.StrictTransitions
		case "multi-item":
			c.MultiItemPolicy = flags.MultiItemPolicy
		case "log-level":
			c.LogLevel = flags.LogLevel
		}
	})

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c Config) Validate() error {
	if c.IDSource != IDSourceClient && c.IDSource != IDSourceAuto {
		return errors.Wrapf(ErrInvalidConfig, "id source %q", c.IDSource)
	}
	if c.MultiItemPolicy != MultiItemFirst && c.MultiItemPolicy != MultiItemReject {
		return errors.Wrapf(ErrInvalidConfig, "multi item policy %q", c.MultiItemPolicy)
	}
	if c.DatabaseURI == "" {
		return errors.Wrap(ErrInvalidConfig, "database uri is empty")
	}
	return nil
}

// Options returns the service settings carried by c.
func (c Config) Options() Options {
	return Options{
		ClientIDs:         c.IDSource == IDSourceClient,
		RefundMetadata:    c.RefundMetadata,
		LegacyResponses:   c.LegacyResponses,
		StrictTransitions: c.StrictTransitions,
		RejectMultiItem:   c.MultiItemPolicy == MultiItemReject,
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config file")
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return errors.Wrap(err, "parse config file")
	}
	return nil
}

func setStringFromEnv(dst *string, env string) {
	if v, ok := os.LookupEnv(env); ok {
		*dst = v
	}
}

func setBoolFromEnv(dst *bool, env string) error {
	v, ok := os.LookupEnv(env)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return errors.Wrapf(ErrInvalidConfig, "%s: %s", env, err.Error())
	}
	*dst = b
	return nil
}
