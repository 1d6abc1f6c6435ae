package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
bus:
  id: "heating-01"
  address: 0x33
  max_lock_counter: 3
serial:
  device: "/dev/ttyUSB1"
  baud: 2400
  read_timeout_ms: 50
mqtt:
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Bus.Address != 0x33 {
		t.Errorf("Bus.Address = %#x, want %#x", cfg.Bus.Address, 0x33)
	}

	if cfg.Serial.Device != "/dev/ttyUSB1" {
		t.Errorf("Serial.Device = %q, want %q", cfg.Serial.Device, "/dev/ttyUSB1")
	}

	if cfg.MQTT.Broker.Host != "localhost" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "localhost")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
bus:
  address: 0x02
serial:
  device: "/dev/ttyUSB0"
  baud: 2400
mqtt:
  broker:
    host: "localhost"
    port: 1883
  qos: 1
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected validation error for a non-master bus address, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: &Config{
				Bus:    BusConfig{ID: "heating-01", Address: 0x33},
				Serial: SerialConfig{Device: "/dev/ttyUSB0", Baud: 2400},
				MQTT: MQTTConfig{
					QoS:    1,
					Broker: MQTTBrokerConfig{Host: "localhost", Port: 1883},
				},
			},
			wantErr: false,
		},
		{
			name: "missing bus id",
			config: &Config{
				Bus:    BusConfig{Address: 0x33},
				Serial: SerialConfig{Device: "/dev/ttyUSB0", Baud: 2400},
				MQTT: MQTTConfig{
					QoS:    1,
					Broker: MQTTBrokerConfig{Host: "localhost", Port: 1883},
				},
			},
			wantErr: true,
		},
		{
			name: "non-master bus address",
			config: &Config{
				Bus:    BusConfig{ID: "heating-01", Address: 0x02},
				Serial: SerialConfig{Device: "/dev/ttyUSB0", Baud: 2400},
				MQTT: MQTTConfig{
					QoS:    1,
					Broker: MQTTBrokerConfig{Host: "localhost", Port: 1883},
				},
			},
			wantErr: true,
		},
		{
			name: "missing serial device",
			config: &Config{
				Bus:    BusConfig{ID: "heating-01", Address: 0x33},
				Serial: SerialConfig{Device: "", Baud: 2400},
				MQTT: MQTTConfig{
					QoS:    1,
					Broker: MQTTBrokerConfig{Host: "localhost", Port: 1883},
				},
			},
			wantErr: true,
		},
		{
			name: "invalid QoS",
			config: &Config{
				Bus:    BusConfig{ID: "heating-01", Address: 0x33},
				Serial: SerialConfig{Device: "/dev/ttyUSB0", Baud: 2400},
				MQTT: MQTTConfig{
					QoS:    3,
					Broker: MQTTBrokerConfig{Host: "localhost", Port: 1883},
				},
			},
			wantErr: true,
		},
		{
			name: "invalid broker port",
			config: &Config{
				Bus:    BusConfig{ID: "heating-01", Address: 0x33},
				Serial: SerialConfig{Device: "/dev/ttyUSB0", Baud: 2400},
				MQTT: MQTTConfig{
					QoS:    1,
					Broker: MQTTBrokerConfig{Host: "localhost", Port: 70000},
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSerialConfig_ReadTimeout(t *testing.T) {
	cfg := SerialConfig{ReadTimeoutMS: 50}
	if got := cfg.ReadTimeout().Milliseconds(); got != 50 {
		t.Errorf("ReadTimeout() = %vms, want 50ms", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	t.Setenv("EBUSD_SERIAL_DEVICE", "/dev/ttyUSB2")
	t.Setenv("EBUSD_MQTT_HOST", "mqtt.example.com")
	t.Setenv("EBUSD_MQTT_USERNAME", "testuser")
	t.Setenv("EBUSD_MQTT_PASSWORD", "testpass")

	applyEnvOverrides(cfg)

	if cfg.Serial.Device != "/dev/ttyUSB2" {
		t.Errorf("Serial.Device = %q, want %q", cfg.Serial.Device, "/dev/ttyUSB2")
	}

	if cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "mqtt.example.com")
	}

	if cfg.MQTT.Auth.Username != "testuser" {
		t.Errorf("MQTT.Auth.Username = %q, want %q", cfg.MQTT.Auth.Username, "testuser")
	}

	if cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth.Password = %q, want %q", cfg.MQTT.Auth.Password, "testpass")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Bus.Address != 0x33 {
		t.Errorf("defaultConfig Bus.Address = %#x, want %#x", cfg.Bus.Address, 0x33)
	}

	if cfg.Serial.Device == "" {
		t.Error("defaultConfig should have non-empty Serial.Device")
	}

	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("defaultConfig MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
}
