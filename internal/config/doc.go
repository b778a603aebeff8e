// Package config loads hydra configuration.
//
// The configuration lives in hydra.json, hydra.toml or hydra.yaml at the
// project root; the format follows the extension. Missing fields take
// defaults.
//
// # Configuration File Structure
//
//	{
//	  "debug": false,
//	  "log": {"level": "info", "format": "text"},
//	  "scheduler": {"maxCascade": 100},
//	  "render": {"app": "todo", "title": "Todo", "lang": "en"},
//	  "server": {
//	    "host": "localhost",
//	    "port": 3000,
//	    "metricsPath": "/metrics",
//	    "wsPath": "/ws",
//	    "maxSessions": 0
//	  },
//	  "snapshot": {
//	    "dir": "snapshots",
//	    "s3": {"bucket": "", "prefix": "", "region": "", "endpoint": ""}
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    return err
//	}
//	addr := cfg.Address()
package config
