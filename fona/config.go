package fona

import (
	"log/slog"
	"time"
)

// Config holds the immutable session configuration. Build one with
// NewConfigBuilder.
type Config struct {
	// Port is the serial port identifier (e.g. "/dev/ttyAMA0").
	Port string
	// BaudRate is the serial connection speed (e.g. 115200).
	BaudRate int
	// PIN is the SIM card PIN code entered during Connect.
	PIN string
	// Verbose enables request/response debug traces.
	Verbose bool

	// Dialer opens the transport. Defaults to a SerialDialer.
	Dialer Dialer
	// Logger receives session logs. Defaults to slog.Default().
	Logger *slog.Logger

	// OpenRetryCount is how many presence probes Open attempts before
	// giving up.
	OpenRetryCount int
	// OpenRetrySleep is the delay after each failed presence probe.
	OpenRetrySleep time.Duration
	// ConnectSettle is the fixed wait between PIN entry and the
	// registration re-check. The module signals readiness by nothing
	// but elapsed time.
	ConnectSettle time.Duration
}

func (c *Config) setDefaults() {
	if c.Dialer == nil {
		c.Dialer = SerialDialer{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.OpenRetryCount == 0 {
		c.OpenRetryCount = 3
	}
	if c.OpenRetrySleep == 0 {
		c.OpenRetrySleep = 5 * time.Second
	}
	if c.ConnectSettle == 0 {
		c.ConnectSettle = 10 * time.Second
	}
}

func (c *Config) validate() error {
	if c.Port == "" {
		return ErrNoPort
	}
	return nil
}

// ConfigBuilder assembles a session Config.
type ConfigBuilder struct {
	config Config
}

func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

func (b *ConfigBuilder) WithPort(port string) *ConfigBuilder {
	b.config.Port = port
	return b
}

func (b *ConfigBuilder) WithBaudRate(baud int) *ConfigBuilder {
	b.config.BaudRate = baud
	return b
}

func (b *ConfigBuilder) WithPIN(pin string) *ConfigBuilder {
	b.config.PIN = pin
	return b
}

func (b *ConfigBuilder) WithVerbose(verbose bool) *ConfigBuilder {
	b.config.Verbose = verbose
	return b
}

func (b *ConfigBuilder) WithDialer(dialer Dialer) *ConfigBuilder {
	b.config.Dialer = dialer
	return b
}

func (b *ConfigBuilder) WithLogger(logger *slog.Logger) *ConfigBuilder {
	b.config.Logger = logger
	return b
}

func (b *ConfigBuilder) WithOpenRetry(count int, sleep time.Duration) *ConfigBuilder {
	b.config.OpenRetryCount = count
	b.config.OpenRetrySleep = sleep
	return b
}

func (b *ConfigBuilder) WithConnectSettle(settle time.Duration) *ConfigBuilder {
	b.config.ConnectSettle = settle
	return b
}

// Build applies defaults and validates the configuration.
func (b *ConfigBuilder) Build() (Config, error) {
	config := b.config
	config.setDefaults()
	if err := config.validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}
