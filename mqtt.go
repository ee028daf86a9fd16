package main

import (
	"context"
	"encoding/json"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// startMQTT subscribes to the configured topic and feeds incoming send
// requests into the gateway queue. Returns nil when no broker is
// configured.
func startMQTT(ctx context.Context, config *Config, gateway *Gateway, logger *slog.Logger) mqtt.Client {
	if config.MQTTBroker == "" {
		return nil
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.MQTTBroker)
	opts.SetClientID(config.MQTTClientID)
	if config.MQTTUsername != "" {
		opts.SetUsername(config.MQTTUsername)
		opts.SetPassword(config.MQTTPassword)
	}
	opts.SetOrderMatters(false)
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", "error", err)
	})
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		logger.Info("mqtt connected, subscribing", "topic", config.MQTTTopic)
		token := c.Subscribe(config.MQTTTopic, 0, func(_ mqtt.Client, m mqtt.Message) {
			var req SendRequest
			if err := json.Unmarshal(m.Payload(), &req); err != nil {
				logger.Warn("mqtt bad payload", "error", err)
				return
			}
			if req.To == "" || req.Message == "" {
				logger.Warn("mqtt missing to/message")
				return
			}
			id := gateway.Enqueue(req)
			logger.Info("sms queued", "id", id, "to", req.To, "source", "mqtt")
		})
		if token.Wait() && token.Error() != nil {
			logger.Error("mqtt subscribe failed", "error", token.Error())
		}
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		logger.Error("mqtt connect failed", "error", token.Error())
	}

	go func() {
		<-ctx.Done()
		client.Disconnect(500)
	}()

	return client
}
