// Package mqtt is ebusd's outbound reporting channel: a thin
// paho.mqtt.golang wrapper that publishes observed telegrams,
// framing/ACK errors and periodic health/stats snapshots to a broker.
//
// The client is publish-only. Subscriptions, inbound commands and
// handler dispatch are deliberately absent: nothing on the bus side of
// ebusd is remotely controllable, so consumers attach to the broker,
// not to this process.
//
//	eBUS wire -> ebusd -> MQTT broker -> subscribers
//
// # Liveness
//
// Consumers can distinguish a dead daemon from a quiet bus two ways.
// The reporter publishes a retained health snapshot per bus
// (ebus/<bus-id>/health), refreshed on its ticker; and the client
// registers a Last Will on ebus/system/status, which the broker
// publishes on ebusd's behalf if the session dies without a graceful
// Close. The retained health payload alone is not enough — it keeps
// reading "healthy" after a crash until something overwrites it.
//
// # Topics
//
//	ebus/<bus-id>/telegram   completed exchanges (stream)
//	ebus/<bus-id>/error      framing/ACK errors and resets (stream)
//	ebus/<bus-id>/health     liveness snapshot (retained)
//	ebus/<bus-id>/stats      counter/timing snapshot (retained)
//	ebus/system/status       process online/offline, incl. Last Will (retained)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.Telegram("heating-01")
//	err = client.Publish(topic, telegramJSON, 1, false)
package mqtt
