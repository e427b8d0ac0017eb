package models

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Encode renders v as pretty-printed JSON that Decode reads back.
func Encode(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// SaveToFile writes a model, or a list of models, to path. The file is
// replaced atomically.
func SaveToFile(path string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return errors.Wrap(err, "unable to encode model")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(err, "unable to create temporary file for %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "unable to write %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "unable to write %s", tmp.Name())
	}
	return errors.Wrapf(os.Rename(tmp.Name(), path), "unable to replace %s", path)
}

// LoadFromFile reads back a file written by SaveToFile.
func LoadFromFile[T any](path string) (T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		var zero T
		return zero, errors.Wrapf(err, "unable to read %s", path)
	}
	return Decode[T](data)
}
