// Package config loads formcore configuration.
//
// Configuration lives in formcore.json or formcore.yaml and can be
// overridden from the environment with the FORMCORE_ prefix, where dots
// become underscores (FORMCORE_LOG_LEVEL=debug).
//
// # Configuration File Structure
//
//	settings:
//	  commentPrefix: "-Comment"
//	  designMode: false
//	  locale: de
//	log:
//	  level: info
//	metrics:
//	  enabled: true
//	  namespace: formcore
//	tracing:
//	  enabled: false
//	  tracerName: formcore
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	model.ApplySettings(cfg.ModelSettings())
package config
