// Package configutil reads json5 config files layered with an optional local
// override file.
package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// layers returns the files that make up the config at path, lowest priority
// first. agrafa.json5 is overridden by agrafa.local.json5.
func layers(path string) []string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return []string{path, stem + ".local" + ext}
}

// decodeFile returns os.ErrNotExist for missing and empty files.
func decodeFile[T any](path string) (T, error) {
	var out T

	contents, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}
	if len(contents) == 0 {
		return out, os.ErrNotExist
	}

	err = json5.Unmarshal(contents, &out)
	if err != nil {
		return out, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

// ReadConfig decodes every layer of the config at path and merges them, fields
// set by a later layer override earlier ones. os.ErrNotExist is returned when
// no layer exists.
func ReadConfig[T any](path string) (T, error) {
	var merged T
	found := false

	for _, layer := range layers(path) {
		decoded, err := decodeFile[T](layer)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return merged, err
		}

		if !found {
			merged = decoded
			found = true
			continue
		}
		err = mergo.Merge(&merged, decoded, mergo.WithOverride)
		if err != nil {
			return merged, fmt.Errorf("merge %s: %w", layer, err)
		}
		slog.Debug("merged config layer", "path", layer)
	}

	if !found {
		return merged, os.ErrNotExist
	}
	return merged, nil
}

// ReadRecursively looks for name in the working directory and then in every
// parent directory, reading the first config found with ReadConfig.
func ReadRecursively[T any](name string) (T, error) {
	var empty T

	dir, err := os.Getwd()
	if err != nil {
		return empty, err
	}

	for {
		config, err := ReadConfig[T](filepath.Join(dir, name))
		if !errors.Is(err, os.ErrNotExist) {
			return config, err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return empty, os.ErrNotExist
		}
		dir = parent
	}
}
