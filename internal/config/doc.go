// Package config loads the elemkit configuration file.
//
// The configuration is stored in elemkit.json or elemkit.yaml. Every
// section is optional; missing fields take the defaults from New.
//
// # Configuration File Structure
//
//	log:
//	  level: debug
//	  format: text
//	server:
//	  host: 0.0.0.0
//	  port: 7070
//	  metricsPath: /metrics
//	  tracing: true
//	snapshots:
//	  dir: snapshots
//	  format: yaml
//	  s3:
//	    bucket: my-bucket
//	    prefix: runs
//	    region: eu-west-1
//	transition:
//	  distance: 64
//	  duration: 150ms
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
