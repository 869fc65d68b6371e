// Package utils contains small helper functions used across the project.
//
// These are generic helpers that don't belong to a specific domain.
package utils

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// PrintJSON writes v to w as tab-indented JSON followed by a newline.
func PrintJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return errors.Wrap(err, "marshal json")
	}

	out = append(out, '\n')
	if _, err := w.Write(out); err != nil {
		return errors.Wrap(err, "write json")
	}
	return nil
}
