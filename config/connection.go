// Package config holds client-facing configuration data holders. It carries
// no connection logic; consumers read the fields and act on them.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// AskPassword is the sentinel password value meaning "prompt the user".
// A newline is used because it can hardly appear in a real password.
const AskPassword = "\n"

// Default ports for the plain and TLS-secured native protocol.
const (
	DefaultPort       = 9000
	DefaultSecurePort = 9440
)

// SecurityMode toggles transport security.
type SecurityMode uint8

const (
	// SecurityDisable uses a plain connection.
	SecurityDisable SecurityMode = iota
	// SecurityEnable uses a TLS-secured connection.
	SecurityEnable
)

// Timeouts groups the per-connection deadlines.
type Timeouts struct {
	Connect time.Duration `json:"connect" yaml:"connect"`
	Send    time.Duration `json:"send"    yaml:"send"`
	Receive time.Duration `json:"receive" yaml:"receive"`
}

// ConnectionParameters is a pure data holder for client connection settings.
type ConnectionParameters struct {
	Host            string       `json:"host"             yaml:"host"`
	Port            uint16       `json:"port"             yaml:"port"`
	DefaultDatabase string       `json:"default_database" yaml:"default_database"`
	User            string       `json:"user"             yaml:"user"`
	Password        string       `json:"password"         yaml:"password"`
	QuotaKey        string       `json:"quota_key"        yaml:"quota_key"`
	Security        SecurityMode `json:"security"         yaml:"security"`
	Compression     bool         `json:"compression"      yaml:"compression"`
	Timeouts        Timeouts     `json:"timeouts"         yaml:"timeouts"`
}

// Default returns connection parameters with the usual client defaults:
// localhost, default user, compression on, plain transport.
func Default() ConnectionParameters {
	p := ConnectionParameters{}
	p.ApplyDefaults()
	return p
}

// ApplyDefaults fills unset fields in place.
func (p *ConnectionParameters) ApplyDefaults() {
	if p.Host == "" {
		p.Host = "localhost"
	}
	if p.Port == 0 {
		if p.Security == SecurityEnable {
			p.Port = DefaultSecurePort
		} else {
			p.Port = DefaultPort
		}
	}
	if p.User == "" {
		p.User = "default"
	}
	if p.Timeouts.Connect == 0 {
		p.Timeouts.Connect = 10 * time.Second
	}
	if p.Timeouts.Send == 0 {
		p.Timeouts.Send = 5 * time.Minute
	}
	if p.Timeouts.Receive == 0 {
		p.Timeouts.Receive = 5 * time.Minute
	}
}

// Addr returns the host:port address.
func (p ConnectionParameters) Addr() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(int(p.Port)))
}

// AsksPassword reports whether the password field carries the prompt
// sentinel.
func (p ConnectionParameters) AsksPassword() bool {
	return p.Password == AskPassword
}

// FromYAML decodes connection parameters from YAML and applies defaults.
func FromYAML(data []byte) (ConnectionParameters, error) {
	var p ConnectionParameters
	if err := yaml.Unmarshal(data, &p); err != nil {
		return ConnectionParameters{}, fmt.Errorf("config: %w", err)
	}
	p.ApplyDefaults()
	return p, nil
}

// FromJSON decodes connection parameters from JSON and applies defaults.
func FromJSON(data []byte) (ConnectionParameters, error) {
	var p ConnectionParameters
	if err := gojson.Unmarshal(data, &p); err != nil {
		return ConnectionParameters{}, fmt.Errorf("config: %w", err)
	}
	p.ApplyDefaults()
	return p, nil
}
