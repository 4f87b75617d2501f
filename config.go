package wyvern

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ListenerConfig configures the TCP listener and HTTP protocol negotiation
// of an App.
type ListenerConfig struct {
	Address   string      `mapstructure:"address"`
	HTTP2Only bool        `mapstructure:"http2_only"`
	HTTP2     HTTP2Config `mapstructure:"http2"`
}

// HTTP2Config holds HTTP/2 tuning settings. In the HTTP/2 protocol modes,
// Listen copies MaxConcurrentStreams, MaxFrameSize (as MaxReadFrameSize),
// InitialStreamWindowSize (as MaxUploadBufferPerStream),
// InitialConnectionWindowSize (as MaxUploadBufferPerConnection) and
// KeepAliveTimeout (as IdleTimeout) onto golang.org/x/net/http2.Server;
// zero values there are left for golang.org/x/net/http2 to default.
// AdaptiveWindow, MaxHeaderListSize, KeepAliveInterval and
// KeepAliveWhileIdle are loaded from configuration but not applied.
type HTTP2Config struct {
	MaxConcurrentStreams        uint32        `mapstructure:"max_concurrent_streams"`
	InitialStreamWindowSize     int32         `mapstructure:"initial_stream_window_size"`
	InitialConnectionWindowSize int32         `mapstructure:"initial_connection_window_size"`
	AdaptiveWindow              bool          `mapstructure:"adaptive_window"`
	MaxFrameSize                uint32        `mapstructure:"max_frame_size"`
	MaxHeaderListSize           uint32        `mapstructure:"max_header_list_size"`
	KeepAliveInterval           time.Duration `mapstructure:"keep_alive_interval"`
	KeepAliveTimeout            time.Duration `mapstructure:"keep_alive_timeout"`
	KeepAliveWhileIdle          bool          `mapstructure:"keep_alive_while_idle"`
}

// TrustedProxyConfig authorizes the X-Forwarded-For header to override the
// observed peer IP.
type TrustedProxyConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// BodyLimitConfig configures the body-limit middleware.
type BodyLimitConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// Config is the application-wide configuration surface: listener, trusted
// proxy, and body-limit settings, optionally loaded from a JSON, TOML, or
// YAML file and decoded with mapstructure, mirroring the teacher's
// Air.ConfigFile mechanism.
type Config struct {
	AppName      string             `mapstructure:"app_name"`
	DebugMode    bool               `mapstructure:"debug_mode"`
	Listener     ListenerConfig     `mapstructure:"listener"`
	TrustedProxy TrustedProxyConfig `mapstructure:"trusted_proxy"`
	BodyLimit    BodyLimitConfig    `mapstructure:"body_limit"`
}

// DefaultConfig returns a Config with the framework's documented defaults:
// listener on "localhost:8080", no HTTP/2-only mode, trusted proxy
// disabled, and the default body limit.
func DefaultConfig() *Config {
	return &Config{
		Listener: ListenerConfig{
			Address: "localhost:8080",
		},
		BodyLimit: BodyLimitConfig{
			MaxBytes: DefaultBodyLimit,
		},
	}
}

// LoadConfigFile reads path (a .json, .toml, or .yaml/.yml file, selected
// by extension) and decodes it over a copy of DefaultConfig via
// mapstructure.
func LoadConfigFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var generic map[string]interface{}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(raw, &generic); err != nil {
			return nil, &ParseError{Field: "config", Err: err}
		}
	case ".toml":
		if err := toml.Unmarshal(raw, &generic); err != nil {
			return nil, &ParseError{Field: "config", Err: err}
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &generic); err != nil {
			return nil, &ParseError{Field: "config", Err: err}
		}
	default:
		return nil, &ParseError{Field: "config", Err: errUnsupportedConfigExt(ext)}
	}

	cfg := DefaultConfig()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, &ParseError{Field: "config", Err: err}
	}

	if err := decoder.Decode(generic); err != nil {
		return nil, &ParseError{Field: "config", Err: err}
	}

	return cfg, nil
}

type errUnsupportedConfigExt string

func (e errUnsupportedConfigExt) Error() string {
	return "unsupported config file extension: " + string(e)
}
