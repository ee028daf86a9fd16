package main

import (
	"flag"
	"os"
	"strconv"
)

// Config holds the gateway daemon configuration
type Config struct {
	// BindAddress is the address the HTTP server listens on (e.g. "0.0.0.0:8080")
	BindAddress string
	// SerialPort is the path to the modem's serial port (e.g. "/dev/ttyAMA0")
	SerialPort string
	// BaudRate is the baud rate for serial communication with the modem (e.g. 115200)
	BaudRate int
	// SimPIN is the SIM card PIN code
	SimPIN string
	// Verbose enables modem request/response traces
	Verbose bool
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string
	// LogFormat selects the log handler ("json" or "console")
	LogFormat string
	// HTTPToken, when set, is required as "Authorization: Bearer <token>"
	HTTPToken string
	// MQTTBroker enables the MQTT ingest path when non-empty (e.g. "tcp://localhost:1883")
	MQTTBroker string
	// MQTTClientID identifies this gateway on the broker
	MQTTClientID string
	// MQTTTopic is the topic carrying send requests
	MQTTTopic string
	// MQTTUsername and MQTTPassword are optional broker credentials
	MQTTUsername string
	MQTTPassword string
	// RatePerMin caps outgoing messages per minute
	RatePerMin int
	// MaxRetries bounds delivery attempts per message
	MaxRetries int
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.BindAddress = "0.0.0.0:8080"
		c.SerialPort = "/dev/ttyAMA0"
		c.BaudRate = 115200
		c.LogLevel = "info"
		c.LogFormat = "json"
		c.MQTTClientID = "fona-gw-1"
		c.MQTTTopic = "sms/send"
		c.RatePerMin = 30
		c.MaxRetries = 3
		return nil
	}
}

// WithEnv loads configuration from environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
			c.BindAddress = addr
		}

		if serial := os.Getenv("SERIAL_PORT"); serial != "" {
			c.SerialPort = serial
		}

		if baud := os.Getenv("BAUD_RATE"); baud != "" {
			if b, err := strconv.Atoi(baud); err == nil {
				c.BaudRate = b
			}
		}

		if simPIN := os.Getenv("SIM_PIN"); simPIN != "" {
			c.SimPIN = simPIN
		}

		if verbose := os.Getenv("VERBOSE"); verbose != "" {
			c.Verbose = verbose == "1" || verbose == "true"
		}

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			c.LogLevel = level
		}

		if format := os.Getenv("LOG_FORMAT"); format != "" {
			c.LogFormat = format
		}

		if token := os.Getenv("HTTP_TOKEN"); token != "" {
			c.HTTPToken = token
		}

		if broker := os.Getenv("MQTT_BROKER"); broker != "" {
			c.MQTTBroker = broker
		}

		if clientID := os.Getenv("MQTT_CLIENT_ID"); clientID != "" {
			c.MQTTClientID = clientID
		}

		if topic := os.Getenv("MQTT_TOPIC"); topic != "" {
			c.MQTTTopic = topic
		}

		if user := os.Getenv("MQTT_USERNAME"); user != "" {
			c.MQTTUsername = user
		}

		if pass := os.Getenv("MQTT_PASSWORD"); pass != "" {
			c.MQTTPassword = pass
		}

		if rate := os.Getenv("RATE_PER_MIN"); rate != "" {
			if r, err := strconv.Atoi(rate); err == nil {
				c.RatePerMin = r
			}
		}

		if retries := os.Getenv("MAX_RETRIES"); retries != "" {
			if r, err := strconv.Atoi(retries); err == nil {
				c.MaxRetries = r
			}
		}

		return nil
	}
}

// WithFlags loads configuration from command-line flags
func WithFlags(fSet *flag.FlagSet) ConfigOption {
	return func(c *Config) error {
		fSet.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "bind-address":
				c.BindAddress = f.Value.String()
			case "serial-port":
				c.SerialPort = f.Value.String()
			case "baud-rate":
				if b, err := strconv.Atoi(f.Value.String()); err == nil {
					c.BaudRate = b
				}
			case "sim-pin":
				c.SimPIN = f.Value.String()
			case "verbose":
				c.Verbose = f.Value.String() == "true"
			case "log-level":
				c.LogLevel = f.Value.String()
			case "log-format":
				c.LogFormat = f.Value.String()
			case "http-token":
				c.HTTPToken = f.Value.String()
			case "mqtt-broker":
				c.MQTTBroker = f.Value.String()
			case "mqtt-topic":
				c.MQTTTopic = f.Value.String()
			case "rate-per-min":
				if r, err := strconv.Atoi(f.Value.String()); err == nil {
					c.RatePerMin = r
				}
			case "max-retries":
				if r, err := strconv.Atoi(f.Value.String()); err == nil {
					c.MaxRetries = r
				}
			}
		})
		return nil
	}
}
