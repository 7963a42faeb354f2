package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"

	"go.uber.org/zap/zapcore"
)

// UsageError is returned when the command line cannot be used.
type UsageError struct {
	Prog   string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("Usage: %s <port>", e.Prog)
}

type Role int

const (
	Client Role = iota
	Server
)

func (r Role) String() string {
	if r == Client {
		return "client"
	}
	return "server"
}

type Config struct {
	Role Role
	// Port is the responder's port: dialled by the client, bound by the
	// server.
	Port uint16
	Host string
	// ISN is the client's initial sequence number.
	ISN uint32
	// Seed feeds the server's sequence number generator. 0 means
	// time based.
	Seed          int64
	InspectAddr   string
	InspectLinger bool
	LogLevel      zapcore.Level
	Banner        bool
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port)))
}

func getenvStr(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(getenv func(string) string, key string, def bool) bool {
	if v := getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvUint32(getenv func(string) string, key string, def uint32) uint32 {
	if v := getenv(key); v != "" {
		if i, err := strconv.ParseUint(v, 10, 32); err == nil {
			return uint32(i)
		}
	}
	return def
}

func getenvInt64(getenv func(string) string, key string, def int64) int64 {
	if v := getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

// Parse reads the single port argument and the environment.
// The behaviour of both programs depends on the following env variables:
// HOST           client: address to connect to, server: address to bind
// HANDSHAKE_ISN  client initial sequence number
// ISN_SEED       seed of the server's sequence numbers, 0 for time based
// INSPECT_ADDR   address of the HTTP inspection server, empty to disable
// INSPECT_LINGER keep the inspection server up after the handshake
// LOG_LEVEL      debug, info, warn or error
// NO_BANNER      skip the ascii banner
func Parse(role Role, args []string, getenv func(string) string) (Config, error) {
	prog := role.String()
	if len(args) > 0 {
		prog = filepath.Base(args[0])
	}
	if len(args) != 2 {
		return Config{}, &UsageError{Prog: prog, Reason: "expected exactly one argument"}
	}
	port, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil {
		return Config{}, &UsageError{Prog: prog, Reason: fmt.Sprintf("invalid port %q", args[1])}
	}

	defHost := "127.0.0.1"
	if role == Server {
		defHost = "0.0.0.0"
	}

	level, err := zapcore.ParseLevel(getenvStr(getenv, "LOG_LEVEL", "info"))
	if err != nil {
		level = zapcore.InfoLevel
	}

	return Config{
		Role:          role,
		Port:          uint16(port),
		Host:          getenvStr(getenv, "HOST", defHost),
		ISN:           getenvUint32(getenv, "HANDSHAKE_ISN", 256),
		Seed:          getenvInt64(getenv, "ISN_SEED", 0),
		InspectAddr:   getenvStr(getenv, "INSPECT_ADDR", ""),
		InspectLinger: getenvBool(getenv, "INSPECT_LINGER", false),
		LogLevel:      level,
		Banner:        !getenvBool(getenv, "NO_BANNER", false),
	}, nil
}
