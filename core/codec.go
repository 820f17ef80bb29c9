package core

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/go-playground/validator.v9"
	"gopkg.in/yaml.v2"
)

// DecodeMode selects how typed payloads are decoded. A router uses exactly
// one mode for all of its Data extractions.
type DecodeMode int

const (
	// ModeStructuredText decodes the payload as lossy UTF-8 and parses it as a
	// structured-text document.
	ModeStructuredText DecodeMode = iota
	// ModeCustomCodec hands the raw bytes to the target type's own parser.
	ModeCustomCodec
)

func (m DecodeMode) String() string {
	if m == ModeCustomCodec {
		return "custom-codec"
	}
	return "structured-text"
}

// Codec decodes raw payload bytes into a Go value.
// Implement this interface for other serialization formats (Protobuf, Avro, etc.).
type Codec interface {
	Decode(data []byte, v any) error
	Mode() DecodeMode
	Name() string
}

// JSONCodec decodes JSON documents with encoding/json.
type JSONCodec struct{}

func (JSONCodec) Decode(data []byte, v any) error {
	if err := json.Unmarshal([]byte(lossyUTF8(data)), v); err != nil {
		return fmt.Errorf("json: %w", err)
	}
	return nil
}

func (JSONCodec) Mode() DecodeMode { return ModeStructuredText }
func (JSONCodec) Name() string     { return "json" }

// SonicCodec decodes JSON documents with bytedance/sonic.
type SonicCodec struct{}

func (SonicCodec) Decode(data []byte, v any) error {
	if err := sonic.UnmarshalString(lossyUTF8(data), v); err != nil {
		return fmt.Errorf("sonic: %w", err)
	}
	return nil
}

func (SonicCodec) Mode() DecodeMode { return ModeStructuredText }
func (SonicCodec) Name() string     { return "sonic" }

// YAMLCodec decodes YAML documents.
type YAMLCodec struct{}

func (YAMLCodec) Decode(data []byte, v any) error {
	if err := yaml.Unmarshal([]byte(lossyUTF8(data)), v); err != nil {
		return fmt.Errorf("yaml: %w", err)
	}
	return nil
}

func (YAMLCodec) Mode() DecodeMode { return ModeStructuredText }
func (YAMLCodec) Name() string     { return "yaml" }

// BinaryCodec delegates to the target's encoding.BinaryUnmarshaler.
// A parse failure is returned like any other decode error.
type BinaryCodec struct{}

func (BinaryCodec) Decode(data []byte, v any) error {
	u, ok := v.(encoding.BinaryUnmarshaler)
	if !ok {
		return fmt.Errorf("binary: %T does not implement encoding.BinaryUnmarshaler", v)
	}
	if err := u.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("binary: %w", err)
	}
	return nil
}

func (BinaryCodec) Mode() DecodeMode { return ModeCustomCodec }
func (BinaryCodec) Name() string     { return "binary" }

type validatingCodec struct {
	inner    Codec
	validate *validator.Validate
}

// ValidatingCodec wraps inner so decoded structs are checked against their
// `validate` struct tags. Non-struct targets are only decoded.
func ValidatingCodec(inner Codec) Codec {
	return &validatingCodec{inner: inner, validate: validator.New()}
}

func (c *validatingCodec) Decode(data []byte, v any) error {
	if err := c.inner.Decode(data, v); err != nil {
		return err
	}
	if reflect.Indirect(reflect.ValueOf(v)).Kind() != reflect.Struct {
		return nil
	}
	if err := c.validate.Struct(v); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

func (c *validatingCodec) Mode() DecodeMode { return c.inner.Mode() }
func (c *validatingCodec) Name() string     { return c.inner.Name() + "+validate" }

var codecs = map[string]Codec{
	"json":   JSONCodec{},
	"sonic":  SonicCodec{},
	"yaml":   YAMLCodec{},
	"binary": BinaryCodec{},
}

// CodecByName returns the codec registered under name
// ("json", "sonic", "yaml" or "binary").
func CodecByName(name string) (Codec, error) {
	c, ok := codecs[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		names := make([]string, 0, len(codecs))
		for n := range codecs {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("eventsys: unknown codec %q (want one of %s)", name, strings.Join(names, ", "))
	}
	return c, nil
}
