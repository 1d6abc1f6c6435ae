// Package reporter publishes observed bus activity and periodic health
// and statistics snapshots over MQTT.
//
// It registers itself as the Protocol FSM's TelegramCallback and
// ErrorCallback, serialises each event to JSON, and publishes it on the
// configured bus's telegram/error topics. A background ticker
// publishes a retained health snapshot and a retained stats snapshot
// drawn from ebus/stats, so a newly-subscribed client sees current
// status immediately.
//
// # Usage
//
//	rep := reporter.New(reporter.Config{
//	    BusID:     cfg.Bus.ID,
//	    Publisher: mqttClient,
//	    Handler:   handler,
//	    Arbiter:   arb,
//	})
//	rep.SetLogger(logger)
//	rep.Start(ctx)
//	defer rep.Stop()
package reporter
