package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"probe-wizard/internals/modules/notification"
	"probe-wizard/internals/modules/probe"

	"gopkg.in/yaml.v3"
)

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

var ErrUnknownFormat = errors.New("format must be yaml or json")

// Render encodes cfg as a Monika configuration file. An empty format means YAML.
// Nil lists are written as empty lists.
func Render(cfg Config, format string) ([]byte, string, error) {
	if cfg.Notifications == nil {
		cfg.Notifications = []notification.Notification{}
	}
	if cfg.Probes == nil {
		cfg.Probes = []probe.Probe{}
	}

	switch format {
	case "", FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, "", fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, "", fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), "application/yaml", nil

	case FormatJSON:
		b, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("encode json: %w", err)
		}
		return append(b, '\n'), "application/json", nil

	default:
		return nil, "", ErrUnknownFormat
	}
}
