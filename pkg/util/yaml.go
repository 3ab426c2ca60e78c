package util

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadYAML decodes a yaml document into dst. Unknown fields are rejected, an
// empty document leaves dst untouched.
func LoadYAML(r io.Reader, dst any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(dst); err != nil && err != io.EOF {
		return errors.Wrap(err, "decode yaml")
	}
	return nil
}
