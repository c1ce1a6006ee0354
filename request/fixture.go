package request

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// fixture is the YAML layout of a globals snapshot:
//
//	server:
//	  REQUEST_URI: /app/webroot/index.php/user
//	  SERVER_PORT: 8080
//	  HTTPS: ~
//	get:
//	  page: 2
//	body: '{"id": 1}'
//
// Scalars are read as strings and null values are dropped.
type fixture struct {
	Server map[string]*string `yaml:"server"`
	Get    map[string]*string `yaml:"get"`
	Post   map[string]*string `yaml:"post"`
	Body   *string            `yaml:"body"`
}

// LoadGlobals reads a globals snapshot from YAML. An empty document
// yields empty Globals.
func LoadGlobals(rd io.Reader) (Globals, error) {
	dec := yaml.NewDecoder(rd)
	dec.KnownFields(true)

	var fx fixture
	if err := dec.Decode(&fx); err != nil {
		if errors.Is(err, io.EOF) {
			return Globals{}, nil
		}
		return Globals{}, fmt.Errorf("%w: %w", ErrInvalidFixture, err)
	}

	return Globals{
		Server: dropNull(fx.Server),
		Get:    dropNull(fx.Get),
		Post:   dropNull(fx.Post),
		Body:   fx.Body,
	}, nil
}

// LoadGlobalsFile reads a globals snapshot from a YAML file.
func LoadGlobalsFile(path string) (Globals, error) {
	f, err := os.Open(path)
	if err != nil {
		return Globals{}, err
	}
	defer f.Close()

	return LoadGlobals(f)
}

func dropNull(m map[string]*string) map[string]string {
	if m == nil {
		return nil
	}

	out := make(map[string]string, len(m))
	for k, v := range m {
		if v != nil {
			out[k] = *v
		}
	}

	return out
}
