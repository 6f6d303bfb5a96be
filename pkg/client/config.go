package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/decred/slog"
	"github.com/vctt94/pokertablesync/pkg/conn"
	"github.com/vctt94/pokertablesync/pkg/utils"
	"gopkg.in/yaml.v3"
)

const (
	AppName        = "pokerclient"
	ConfigFileName = AppName + ".yaml"

	DefaultChatEmitInterval = 100 * time.Millisecond
	defaultDebugLevel       = "info"
)

// ErrMissingConfig is wrapped by Validate when required values are unset.
var ErrMissingConfig = errors.New("missing required configuration values")

// ConfigOverrides carries optional CLI/runtime overrides for config values.
type ConfigOverrides struct {
	WSURL       string
	APIURL      string
	TableID     int64
	AccessToken string
	DebugLevel  string
	LogFile     string
}

// AppConfig is the client configuration, read from <datadir>/pokerclient.yaml.
type AppConfig struct {
	DataDir string `yaml:"-"`

	WSURL  string `yaml:"wsurl"`
	APIURL string `yaml:"apiurl"`

	TableID int64 `yaml:"tableid"`
	// AccessToken may be empty to spectate.
	AccessToken string `yaml:"accesstoken"`

	DebugLevel  string `yaml:"debuglevel"`
	LogFile     string `yaml:"logfile"`
	MaxLogFiles int    `yaml:"maxlogfiles"`

	ReconnectBase  time.Duration `yaml:"reconnectbase"`
	ReconnectMax   time.Duration `yaml:"reconnectmax"`
	MaxReconnects  int           `yaml:"maxreconnects"`
	CoalesceWindow time.Duration `yaml:"coalescewindow"`
	AuthRetry      time.Duration `yaml:"authretry"`
	Heartbeat      time.Duration `yaml:"heartbeat"`
}

// LoadConfig reads the config file in datadir, if there is one, and applies
// the overrides. An empty datadir selects the per user app directory.
func LoadConfig(datadir string, ov ConfigOverrides) (*AppConfig, error) {
	if datadir == "" {
		datadir = utils.AppDataDir(AppName)
	}
	if err := utils.EnsureDataDirExists(datadir); err != nil {
		return nil, err
	}

	cfg := &AppConfig{
		ReconnectBase:  conn.DefaultBaseDelay,
		ReconnectMax:   conn.DefaultMaxDelay,
		MaxReconnects:  conn.DefaultMaxAttempts,
		CoalesceWindow: conn.DefaultCoalesceWindow,
		AuthRetry:      conn.DefaultAuthRetryInterval,
		Heartbeat:      conn.DefaultHeartbeat,
	}

	b, err := os.ReadFile(filepath.Join(datadir, ConfigFileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.DataDir = datadir

	if ov.WSURL != "" {
		cfg.WSURL = ov.WSURL
	}
	if ov.APIURL != "" {
		cfg.APIURL = ov.APIURL
	}
	if ov.TableID != 0 {
		cfg.TableID = ov.TableID
	}
	if ov.AccessToken != "" {
		cfg.AccessToken = ov.AccessToken
	}
	if ov.DebugLevel != "" {
		cfg.DebugLevel = ov.DebugLevel
	}
	if ov.LogFile != "" {
		cfg.LogFile = ov.LogFile
	}

	if cfg.DebugLevel == "" {
		cfg.DebugLevel = defaultDebugLevel
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(datadir, "logs", AppName+".log")
	}
	return cfg, nil
}

// Validate checks that all required configuration values are present.
func (cfg *AppConfig) Validate() error {
	var missing []string
	if cfg.WSURL == "" {
		missing = append(missing, "wsurl")
	}
	if cfg.TableID <= 0 {
		missing = append(missing, "tableid")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingConfig, missing)
	}
	return nil
}

// Save writes cfg to its data dir.
func (cfg *AppConfig) Save() error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cfg.DataDir, ConfigFileName), b, 0o600)
}

// ConnConfig returns the connection settings.
func (cfg *AppConfig) ConnConfig(log slog.Logger) conn.Config {
	return conn.Config{
		URL:               cfg.WSURL,
		BaseDelay:         cfg.ReconnectBase,
		MaxDelay:          cfg.ReconnectMax,
		MaxAttempts:       cfg.MaxReconnects,
		CoalesceWindow:    cfg.CoalesceWindow,
		AuthRetryInterval: cfg.AuthRetry,
		Heartbeat:         cfg.Heartbeat,
		Log:               log,
	}
}
