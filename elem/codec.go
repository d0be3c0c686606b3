package elem

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/elemkit/internal/errors"
)

// Format names an encoding of node descriptions.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// FormatFromPath returns the format implied by a file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".msgpack", ".mp":
		return FormatMsgpack, true
	}
	return "", false
}

// Unmarshal decodes data in the given format into a generic value with
// string-keyed maps.
func Unmarshal(format Format, data []byte, v any) error {
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, v)
	case FormatYAML:
		err = yaml.Unmarshal(data, v)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, v)
	default:
		return errors.New("E206").WithDetailf("unknown format %q", format)
	}
	if err != nil {
		return errors.New("E206").WithDetailf("%s", format).Wrap(err)
	}
	return nil
}

// Marshal encodes v in the given format.
func Marshal(format Format, v any) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.Marshal(v)
	case FormatYAML:
		return yaml.Marshal(v)
	case FormatMsgpack:
		return msgpack.Marshal(v)
	}
	return nil, errors.New("E206").WithDetailf("unknown format %q", format)
}

// Decode decodes one node description in the given format.
func Decode(format Format, data []byte, r Resolver) (*Node, error) {
	var m map[string]any
	if err := Unmarshal(format, data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("E206").WithDetail("document is empty")
	}
	return FromMap(m, r)
}

// DecodeJSON decodes a JSON node description.
func DecodeJSON(data []byte, r Resolver) (*Node, error) {
	return Decode(FormatJSON, data, r)
}

// DecodeYAML decodes a YAML node description.
func DecodeYAML(data []byte, r Resolver) (*Node, error) {
	return Decode(FormatYAML, data, r)
}

// DecodeMsgpack decodes a msgpack node description.
func DecodeMsgpack(data []byte, r Resolver) (*Node, error) {
	return Decode(FormatMsgpack, data, r)
}
