// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"
)

// parseConfig decodes a YAML document of flag name to value.
// Sequences are joined by commas.
func parseConfig(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	values := make(map[string]string, len(raw))
	for name, v := range raw {
		switch v := v.(type) {
		case nil:
		case map[string]any:
			return nil, errors.Errorf("config %v: nested values not supported", name)
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				items = append(items, fmt.Sprint(item))
			}
			values[name] = strings.Join(items, ",")
		default:
			values[name] = fmt.Sprint(v)
		}
	}
	return values, nil
}

// applyConfig loads the file named by --config and uses its values for flags not given explicitly.
func applyConfig(ctx *cli.Context, flags []cli.Flag) error {
	path := ctx.String(configFlag.Name)
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config")
	}
	values, err := parseConfig(data)
	if err != nil {
		return err
	}

	known := make(map[string]bool, len(flags))
	for _, f := range flags {
		known[f.GetName()] = true
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !known[name] || name == configFlag.Name {
			return errors.Errorf("config %v: unknown option", name)
		}
		if ctx.IsSet(name) {
			continue
		}
		if err := ctx.Set(name, values[name]); err != nil {
			return errors.Wrapf(err, "config %v", name)
		}
	}
	logger.Debug("config loaded", "path", path, "options", len(names))
	return nil
}
