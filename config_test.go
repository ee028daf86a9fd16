package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		config, err := LoadConfig(WithDefaults())
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0:8080", config.BindAddress)
		assert.Equal(t, "/dev/ttyAMA0", config.SerialPort)
		assert.Equal(t, 115200, config.BaudRate)
		assert.Equal(t, "json", config.LogFormat)
		assert.Equal(t, 30, config.RatePerMin)
		assert.Equal(t, 3, config.MaxRetries)
	})

	t.Run("Environment overrides defaults", func(t *testing.T) {
		t.Setenv("SERIAL_PORT", "/dev/ttyUSB2")
		t.Setenv("BAUD_RATE", "9600")
		t.Setenv("SIM_PIN", "4250")
		t.Setenv("VERBOSE", "1")
		t.Setenv("MQTT_BROKER", "tcp://localhost:1883")

		config, err := LoadConfig(WithDefaults(), WithEnv())
		require.NoError(t, err)

		assert.Equal(t, "/dev/ttyUSB2", config.SerialPort)
		assert.Equal(t, 9600, config.BaudRate)
		assert.Equal(t, "4250", config.SimPIN)
		assert.True(t, config.Verbose)
		assert.Equal(t, "tcp://localhost:1883", config.MQTTBroker)
	})

	t.Run("Flags override environment", func(t *testing.T) {
		t.Setenv("SERIAL_PORT", "/dev/ttyUSB2")

		fSet := flag.NewFlagSet("test", flag.ContinueOnError)
		fSet.String("serial-port", "/dev/ttyAMA0", "")
		fSet.Int("rate-per-min", 30, "")
		require.NoError(t, fSet.Parse([]string{"-serial-port", "/dev/ttyS0", "-rate-per-min", "5"}))

		config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(fSet))
		require.NoError(t, err)

		assert.Equal(t, "/dev/ttyS0", config.SerialPort)
		assert.Equal(t, 5, config.RatePerMin)
	})
}
