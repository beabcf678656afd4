// Package config loads cardgen settings from defaults, a YAML file and the
// environment, in that order of precedence (later wins). Command-line flags
// are applied on top by cmd/cardgen.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xob0t/cardgen/pkg/generator"
	"github.com/xob0t/cardgen/pkg/template"
	"github.com/xob0t/cardgen/pkg/template/vector"
)

const (
	DefaultPort         = 10000
	DefaultTemplatePath = "./template/template.png"
	DefaultOutputDir    = "./generated"
)

// Engine names.
const (
	EngineFace   = "face"
	EngineVector = "vector"
)

// Config is the full process configuration.
type Config struct {
	Port          int                         `yaml:"port"`
	TemplatePath  string                      `yaml:"template_path"`
	OutputDir     string                      `yaml:"output_dir"`
	PublicBaseURL string                      `yaml:"public_base_url"`
	Variant       string                      `yaml:"variant"`
	Engine        string                      `yaml:"engine"`
	Format        string                      `yaml:"format"`
	Fonts         FontPaths                   `yaml:"fonts"`
	Variants      map[string]template.Variant `yaml:"variants"`
}

// FontPaths points at optional custom font files.
type FontPaths struct {
	Regular string `yaml:"regular"`
	Bold    string `yaml:"bold"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:         DefaultPort,
		TemplatePath: DefaultTemplatePath,
		OutputDir:    DefaultOutputDir,
		Variant:      template.DefaultVariant,
		Engine:       EngineFace,
		Format:       generator.FormatPNG,
	}
}

// Load returns the defaults overlaid with the YAML file at path (if any) and
// the process environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path. Keys absent from the file keep
// their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays non-empty environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.TemplatePath, "TEMPLATE_PATH")
	set(&c.OutputDir, "OUTPUT_DIR")
	set(&c.PublicBaseURL, "PUBLIC_BASE_URL")
	set(&c.Variant, "VARIANT")
	set(&c.Engine, "ENGINE")
	set(&c.Format, "FORMAT")
	set(&c.Fonts.Regular, "FONT_REGULAR")
	set(&c.Fonts.Bold, "FONT_BOLD")
	return nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// BaseURL returns the public URL prefix for generated images, without a
// trailing slash.
func (c Config) BaseURL() string {
	if c.PublicBaseURL != "" {
		return strings.TrimRight(c.PublicBaseURL, "/")
	}
	return fmt.Sprintf("http://localhost:%d", c.Port)
}

// AllVariants returns the built-in variants merged with configured overrides.
func (c Config) AllVariants() map[string]template.Variant {
	return template.ResolveVariants(c.Variants)
}

// SelectedVariant returns the configured variant.
func (c Config) SelectedVariant() (template.Variant, error) {
	v, ok := c.AllVariants()[c.Variant]
	if !ok {
		return template.Variant{}, fmt.Errorf("unknown variant %q", c.Variant)
	}
	return v, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.TemplatePath == "" {
		errs = append(errs, errors.New("template_path is required"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output_dir is required"))
	}
	if c.Engine != EngineFace && c.Engine != EngineVector {
		errs = append(errs, fmt.Errorf("engine %q: use %s or %s", c.Engine, EngineFace, EngineVector))
	}
	if !generator.ValidFormat(c.Format) {
		errs = append(errs, fmt.Errorf("format %q: use png or tiff", c.Format))
	}
	if _, err := c.SelectedVariant(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// NewEngine returns the text engine named by c.Engine.
func (c Config) NewEngine(fm *template.FontManager) template.Engine {
	if c.Engine == EngineVector {
		return vector.New(fm)
	}
	return template.NewFaceEngine(fm)
}
