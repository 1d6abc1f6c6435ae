package ebus

import "testing"

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		zz   byte
		want TelegramType
	}{
		{"broadcast", Broadcast, TypeBroadcast},
		{"master", 0x03, TypeMasterMaster},
		{"slave", 0x08, TypeMasterSlave},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeOf(tt.zz); got != tt.want {
				t.Errorf("TypeOf(%#02x) = %v, want %v", tt.zz, got, tt.want)
			}
		})
	}
}

// TestBuildMasterFromSequenceValid exercises a real master half taken
// from a captured master-slave exchange: QQ=FF ZZ=52 PB=B5 SB=09 NN=03
// DB=0D 06 00, followed by its CRC.
func TestBuildMasterFromSequenceValid(t *testing.T) {
	data := []byte{0xFF, 0x52, 0xB5, 0x09, 0x03, 0x0D, 0x06, 0x00}
	seq := SequenceFrom(data, false)
	crc := seq.CRC()

	full := append(append([]byte(nil), data...), crc)
	tel := BuildMasterFromSequence(SequenceFrom(full, false))
	if tel.MasterState != SeqOK {
		t.Fatalf("MasterState = %v, want ok", tel.MasterState)
	}
	if tel.SourceAddress() != 0xFF {
		t.Errorf("SourceAddress() = %#02x, want 0xFF", tel.SourceAddress())
	}
	if tel.TargetAddress() != 0x52 {
		t.Errorf("TargetAddress() = %#02x, want 0x52", tel.TargetAddress())
	}
	if tel.MasterDataCount() != 0x03 {
		t.Errorf("MasterDataCount() = %#02x, want 0x03", tel.MasterDataCount())
	}
	if tel.MasterCRC != crc {
		t.Errorf("MasterCRC = %#02x, want %#02x", tel.MasterCRC, crc)
	}
	if tel.Type() != TypeMasterSlave {
		t.Errorf("Type() = %v, want master_slave", tel.Type())
	}
}

func TestBuildMasterFromSequenceRules(t *testing.T) {
	tests := []struct {
		name string
		seq  []byte
		want SequenceState
	}{
		{"too short", []byte{0xFF, 0xB5, 0x09}, SeqTooShort},
		{"bad source addr", []byte{0x08, 0xB5, 0x09, 0x03, 0x00}, SeqBadSourceAddr},
		{"bad target addr", []byte{0xFF, SYN, 0x09, 0x03, 0x00}, SeqBadTargetAddr},
		{"bad data byte", []byte{0xFF, 0xB5, 0x09, 0x03, 0x11}, SeqBadDataByte},
		{"too short for NN", []byte{0xFF, 0xB5, 0x09, 0x03, 0x02, 0x01}, SeqTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tel := BuildMasterFromSequence(SequenceFrom(tt.seq, false))
			if tel.MasterState != tt.want {
				t.Errorf("MasterState = %v, want %v", tel.MasterState, tt.want)
			}
		})
	}
}

func TestBuildMasterFromSequenceBadCRC(t *testing.T) {
	body := []byte{0xFF, 0xB5, 0x09, 0x03, 0x00}
	seq := SequenceFrom(body, false)
	wrong := seq.CRC() ^ 0xFF

	full := append(append([]byte(nil), body...), wrong)
	tel := BuildMasterFromSequence(SequenceFrom(full, false))
	if tel.MasterState != SeqBadCRC {
		t.Fatalf("MasterState = %v, want bad_crc", tel.MasterState)
	}
}

func TestBuildMasterComputesCRCWhenAbsent(t *testing.T) {
	tel := BuildMaster(0xFF, []byte{0xB5, 0x09, 0x03, 0x00})
	if tel.MasterState != SeqOK {
		t.Fatalf("MasterState = %v, want ok", tel.MasterState)
	}

	check := SequenceFrom([]byte{0xFF, 0xB5, 0x09, 0x03, 0x00}, false)
	if tel.MasterCRC != check.CRC() {
		t.Errorf("MasterCRC = %#02x, want %#02x", tel.MasterCRC, check.CRC())
	}
}

func TestBuildSlaveRoundTrip(t *testing.T) {
	tel := BuildSlave([]byte{0x00})
	if tel.SlaveState != SeqOK {
		t.Fatalf("SlaveState = %v, want ok", tel.SlaveState)
	}
	if tel.SlaveDataCount() != 0x00 {
		t.Errorf("SlaveDataCount() = %#02x, want 0x00", tel.SlaveDataCount())
	}
}

func TestTelegramValid(t *testing.T) {
	tel := BuildMaster(0xFF, []byte{Broadcast, 0x09, 0x03, 0x01, 0x00})
	if !tel.Valid() {
		t.Fatal("broadcast telegram with ok master should be valid")
	}

	tel2 := BuildMaster(0xFF, []byte{0x08, 0x09, 0x03, 0x01, 0x00})
	if tel2.Valid() {
		t.Fatal("master-slave telegram without slave half should not be valid")
	}
	tel2.SetSlaveFromSequence(SequenceFrom([]byte{0x00}, false))
	if !tel2.Valid() {
		t.Fatal("master-slave telegram with ok halves should be valid")
	}
}

// TestParseMasterSlaveExchange builds a full on-wire master-slave
// exchange (master half, ACK, slave half, ACK) and checks Parse
// recovers both halves.
func TestParseMasterSlaveExchange(t *testing.T) {
	master := BuildMaster(0xFF, []byte{0x08, 0x09, 0x03, 0x02, 0xAA, 0x11})
	slave := BuildSlave([]byte{0x01, 0x22})

	var full []byte
	full = append(full, master.Master.Bytes()...)
	full = append(full, master.MasterCRC)
	full = append(full, ACK)
	full = append(full, slave.Slave.Bytes()...)
	full = append(full, slave.SlaveCRC)
	full = append(full, ACK)

	tel := Parse(SequenceFrom(full, false))
	if tel.MasterState != SeqOK {
		t.Fatalf("MasterState = %v, want ok", tel.MasterState)
	}
	if tel.Type() != TypeMasterSlave {
		t.Fatalf("Type() = %v, want master_slave", tel.Type())
	}
	if tel.SlaveState != SeqOK {
		t.Fatalf("SlaveState = %v, want ok", tel.SlaveState)
	}
	if tel.SlaveDataCount() != 0x01 || tel.SlaveDataBytes()[0] != 0x22 {
		t.Errorf("slave payload mismatch: NN=%#02x data=% X", tel.SlaveDataCount(), tel.SlaveDataBytes())
	}
	if !tel.hasMasterACK || tel.MasterACK != ACK {
		t.Error("expected recorded master ACK")
	}
	if !tel.hasSlaveACK || tel.SlaveACK != ACK {
		t.Error("expected recorded slave ACK")
	}
}

func TestParseBroadcastNoAck(t *testing.T) {
	master := BuildMaster(0xFF, []byte{Broadcast, 0x09, 0x03, 0x01, 0x00})
	var full []byte
	full = append(full, master.Master.Bytes()...)
	full = append(full, master.MasterCRC)

	tel := Parse(SequenceFrom(full, false))
	if tel.MasterState != SeqOK {
		t.Fatalf("MasterState = %v, want ok", tel.MasterState)
	}
	if tel.Type() != TypeBroadcast {
		t.Fatalf("Type() = %v, want broadcast", tel.Type())
	}
}
