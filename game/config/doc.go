// Package config provides tuning configuration management for the
// mini-game server.
//
// The config package handles:
//   - Loading tuning configurations from JSON files
//   - Configuration validation and caching
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Tuning configurations are stored as JSON files in the configs directory.
// Each configuration defines:
//   - Room code length and name length limits
//   - Reaction game go-signal delay bounds
//   - Gamble game round count, per-round deadline, and unit payout
//
// A built-in default is used when the directory holds no usable file, so a
// bare checkout runs without any configuration.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific configuration
//	tuning, err := manager.LoadConfig("fast")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Get default configuration
//	tuning = manager.GetDefault()
//
//	// List available configurations
//	configs, err := manager.ListConfigs()
package config
