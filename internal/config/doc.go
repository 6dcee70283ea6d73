// Package config provides configuration parsing for bindkit servers.
//
// The configuration is stored in bindkit.json at the project root.
//
// # Configuration File Structure
//
//	{
//	  "name": "todo",
//	  "server": {
//	    "host": "localhost",
//	    "port": 8080,
//	    "readTimeout": "60s",
//	    "writeTimeout": "10s",
//	    "heartbeatInterval": "30s"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "bindkit"
//	  },
//	  "log": {
//	    "level": "info"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Address:", cfg.Address())
package config
