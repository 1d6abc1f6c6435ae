package reporter

import (
	"fmt"
	"time"

	"github.com/nerrad567/ebus-core/ebus/protocol"
)

// TelegramEvent is the JSON payload published for a completed exchange.
type TelegramEvent struct {
	Timestamp    time.Time `json:"timestamp"`
	Source       string    `json:"source"`
	SourceType   string    `json:"source_type"`
	Target       string    `json:"target"`
	TelegramType string    `json:"telegram_type"`
	PrimaryCmd   string    `json:"pb"`
	SecondaryCmd string    `json:"sb"`
	MasterData   []string  `json:"master_data,omitempty"`
	SlaveData    []string  `json:"slave_data,omitempty"`
	Valid        bool      `json:"valid"`
}

// ErrorEvent is the JSON payload published for a framing, acknowledgement
// or reset condition.
type ErrorEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Tag       string    `json:"tag"`
	Source    string    `json:"source,omitempty"`
	Target    string    `json:"target,omitempty"`
}

func newTelegramEvent(source protocol.MessageType, master, slave *protocol.Telegram) TelegramEvent {
	ev := TelegramEvent{
		Timestamp:    time.Now().UTC(),
		SourceType:   source.String(),
		TelegramType: master.Type().String(),
		Valid:        master.Valid(),
		Source:       hexByte(master.SourceAddress()),
		Target:       hexByte(master.TargetAddress()),
		PrimaryCmd:   hexByte(master.PrimaryCommand()),
		SecondaryCmd: hexByte(master.SecondaryCommand()),
		MasterData:   hexBytes(master.MasterDataBytes()),
	}
	if slave != nil {
		ev.SlaveData = hexBytes(slave.SlaveDataBytes())
	}
	return ev
}

func newErrorEvent(tag string, master, slave *protocol.Telegram) ErrorEvent {
	ev := ErrorEvent{
		Timestamp: time.Now().UTC(),
		Tag:       tag,
	}
	if master != nil && master.Master.Len() > 0 {
		ev.Source = hexByte(master.SourceAddress())
		ev.Target = hexByte(master.TargetAddress())
	}
	return ev
}

func hexByte(b byte) string {
	return fmt.Sprintf("%02X", b)
}

func hexBytes(bs []byte) []string {
	if len(bs) == 0 {
		return nil
	}
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = hexByte(b)
	}
	return out
}
