// Package config loads the routestate tool configuration with viper.
//
// Values come from, in decreasing precedence: command-line flags,
// ROUTESTATE_* environment variables (ROUTESTATE_SERVER_PORT=9000), the
// configuration file (routestate.yaml in the working directory, or the
// file named by --config) and built-in defaults.
//
// A minimal routestate.yaml:
//
//	routes: routes.yaml
//	server:
//	  port: 8080
//	  live: true
//	metrics:
//	  enabled: true
//	log:
//	  level: debug
package config
