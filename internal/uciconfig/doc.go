// Package uciconfig manages the uci CLI's own preferences, loaded from
// an optional YAML dotfile.
//
// # Configuration Structure
//
//	confdir: /etc/config   # default package search directory
//	savedir: /tmp/.uci     # delta log directory
//	strict: true           # abort import on first parse error
//	color: true            # colorize show/changes output
//
// # Basic Usage
//
//	provider := uciconfig.New()
//	cfg, err := provider.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Default Configuration
//
// If no configuration file exists, uciconfig.Default() is used:
// confdir /etc/config, savedir /tmp/.uci, strict and color both on.
//
// # Error Handling
//
//   - ErrInvalidConfig: configuration validation failed
//   - ErrNoConfig: configuration file not found (returns defaults)
package uciconfig
