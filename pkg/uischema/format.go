package uischema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"gopkg.in/yaml.v3"
)

// Format is the serialisation of an object or overlay file.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "yaml"
}

// DetectFormat sniffs data. Anything mimetype does not recognise as JSON is
// decoded as YAML, which also accepts most JSON.
func DetectFormat(data []byte) Format {
	if mimetype.Detect(data).Is("application/json") {
		return FormatJSON
	}
	return FormatYAML
}

// decode unmarshals data into out using the detected format.
func decode(data []byte, source string, out any) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return fmt.Errorf("uischema: file %s is empty", source)
	}

	switch DetectFormat(data) {
	case FormatJSON:
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("uischema: parse %s as json: %w", source, err)
		}
	default:
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("uischema: parse %s as yaml: %w", source, err)
		}
	}
	return nil
}
