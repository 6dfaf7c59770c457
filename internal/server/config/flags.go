package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/devicekeeper/internal/flagx"
)

// parseFlags overlays command-line flags:
//
//	-a string     gRPC bind address (e.g. ":50051")
//	-d string     PostgreSQL DSN
//	-s string     storage backend: postgres or memory
//	-ds string    device schema
//	-as string    auth schema holding the user table
//	-l string     log level
//	-f string     log format: json or text
//	-i duration   health check interval (e.g. "5s")
//
// Only these flags are read from os.Args, so other layers and positional
// arguments do not collide. A malformed value panics.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-ds", "-as", "-l", "-f", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.Storage, "s", config.Storage, "storage backend (postgres|memory)")
	fs.StringVar(&config.DeviceSchema, "ds", config.DeviceSchema, "device schema")
	fs.StringVar(&config.AuthSchema, "as", config.AuthSchema, "auth schema")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format (json|text)")
	fs.DurationVar(&config.HealthCheckInterval, "i", config.HealthCheckInterval, "health check interval")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
