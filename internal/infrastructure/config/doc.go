// Package config handles loading and validating ebusd configuration.
//
// This package manages:
//   - Loading configuration from a YAML file
//   - Overriding select fields with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - MQTT credentials should be set via environment variables rather
//     than committed to the YAML file
//   - The config file should have restricted permissions (0600) since
//     it may carry broker credentials
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - No runtime overhead after initial load
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Bus.Address)
package config
