// Package mqtt provides the MQTT client for motiond.
//
// It wraps paho.mqtt.golang with connection management, automatic
// reconnection with subscription restoration, Last Will and Testament
// status messages, and panic-safe message handlers.
//
// motiond uses the bus two ways:
//
//   - publishing every emitted protocol line to the configured lines topic,
//     so remote listeners can mirror the device output
//   - subscribing to the command topic for remote control (e.g. stop)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe("motioncore/command", 1, func(topic string, payload []byte) error {
//	    // handle command
//	    return nil
//	})
package mqtt
