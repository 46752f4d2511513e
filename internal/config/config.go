// Package config holds the catalog programs to scrape and run settings.
//
// The built-in defaults cover the Computer Engineering degree plan and the Math
// minor. A JSON5 config file may override settings or add programs; a sibling
// "<name>.local.<ext>" file is merged on top of it. Keys present in a file win,
// zero values included, so "delay_ms: 0" or "credit_quotas: false" take effect.
// Keys a file leaves out keep their earlier value, and a program entry is merged
// field by field onto the entry of the same key.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/titanous/json5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	DefaultFile    = "catalog.json5"
	DefaultDataDir = "data"
)

// Program describes one catalog page to scrape
type Program struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	Output       string `json:"output"`
	CreditQuotas bool   `json:"credit_quotas"`
}

// Config holds run settings
type Config struct {
	DataDir        string             `json:"data_dir"`
	SearchURL      string             `json:"search_url"`
	DelayMS        int                `json:"delay_ms"`
	TimeoutSeconds int                `json:"timeout_seconds"`
	UserAgent      string             `json:"user_agent"`
	Programs       map[string]Program `json:"programs"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		DataDir:        DefaultDataDir,
		SearchURL:      "https://catalog.tamu.edu/search/?P=",
		DelayMS:        500,
		TimeoutSeconds: 30,
		Programs: map[string]Program{
			"ce": {
				Name:   "Computer Engineering",
				URL:    "https://catalog.tamu.edu/undergraduate/engineering/computer-science/computer-engineering-bs/#programrequirementstext",
				Output: "ce_courses.json",
			},
			"math-minor": {
				Name:         "Math Minor",
				URL:          "https://catalog.tamu.edu/undergraduate/arts-and-sciences/mathematics/minor/#programrequirementstext",
				Output:       "math_minor_courses.json",
				CreditQuotas: true,
			},
		},
	}
}

// Delay returns the pause taken after each prerequisite lookup
func (c Config) Delay() time.Duration {
	return time.Duration(c.DelayMS) * time.Millisecond
}

// Timeout returns the per-request HTTP timeout
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ProgramKeys returns the configured program keys in sorted order
func (c Config) ProgramKeys() []string {
	keys := make([]string, 0, len(c.Programs))
	for key := range c.Programs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Program looks up a program by key, filling in a display name and output file
// when the config leaves them empty
func (c Config) Program(key string) (Program, error) {
	p, ok := c.Programs[key]
	if !ok {
		return Program{}, fmt.Errorf("unknown program %q (known: %s)", key, strings.Join(c.ProgramKeys(), ", "))
	}
	if p.URL == "" {
		return Program{}, fmt.Errorf("program %q has no url", key)
	}

	words := strings.ReplaceAll(key, "-", " ")
	if p.Name == "" {
		p.Name = cases.Title(language.English).String(words)
	}
	if p.Output == "" {
		p.Output = strings.ReplaceAll(words, " ", "_") + "_courses.json"
	}
	return p, nil
}

// Load returns the defaults merged with the config file at path and its local
// override. Missing files are skipped.
func Load(path string) (Config, error) {
	cfg := Default()

	for _, file := range []string{path, localPath(path)} {
		override, present, err := readFile(file)
		if err != nil {
			return cfg, err
		}
		if present == nil {
			continue
		}
		if err := apply(&cfg, override, present); err != nil {
			return cfg, fmt.Errorf("merging %s: %w", file, err)
		}
	}

	return cfg, nil
}

// apply merges override onto cfg. The merge skips zero values, so keys present
// in the file are assigned afterwards to let explicit zeros through.
func apply(cfg *Config, override Config, present map[string]interface{}) error {
	programs := override.Programs
	override.Programs = nil

	if err := mergo.Merge(cfg, override, mergo.WithOverride); err != nil {
		return err
	}
	assignIfPresent(present, "data_dir", &cfg.DataDir, override.DataDir)
	assignIfPresent(present, "search_url", &cfg.SearchURL, override.SearchURL)
	assignIfPresent(present, "delay_ms", &cfg.DelayMS, override.DelayMS)
	assignIfPresent(present, "timeout_seconds", &cfg.TimeoutSeconds, override.TimeoutSeconds)
	assignIfPresent(present, "user_agent", &cfg.UserAgent, override.UserAgent)

	if len(programs) == 0 {
		return nil
	}
	if cfg.Programs == nil {
		cfg.Programs = make(map[string]Program)
	}
	entries, _ := present["programs"].(map[string]interface{})

	for key, p := range programs {
		merged := cfg.Programs[key]
		if err := mergo.Merge(&merged, p, mergo.WithOverride); err != nil {
			return fmt.Errorf("program %q: %w", key, err)
		}

		fields, _ := entries[key].(map[string]interface{})
		assignIfPresent(fields, "name", &merged.Name, p.Name)
		assignIfPresent(fields, "url", &merged.URL, p.URL)
		assignIfPresent(fields, "output", &merged.Output, p.Output)
		assignIfPresent(fields, "credit_quotas", &merged.CreditQuotas, p.CreditQuotas)

		cfg.Programs[key] = merged
	}
	return nil
}

func assignIfPresent[T any](present map[string]interface{}, key string, dst *T, value T) {
	if _, ok := present[key]; ok {
		*dst = value
	}
}

// readFile decodes a config file. The second result holds the raw keys of the
// file and is nil when the file is missing or empty.
func readFile(path string) (Config, map[string]interface{}, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil, nil
		}
		return cfg, nil, fmt.Errorf("reading config: %w", err)
	}
	if len(data) == 0 {
		return cfg, nil, nil
	}

	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	present := make(map[string]interface{})
	if err := json5.Unmarshal(data, &present); err != nil {
		return cfg, nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, present, nil
}

// localPath turns "dir/catalog.json5" into "dir/catalog.local.json5"
func localPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}
