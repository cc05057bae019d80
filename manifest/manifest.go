// Package manifest handles glint.toml host configuration.
package manifest

import (
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/glintui/glint-bridge/app"
	"github.com/glintui/glint-bridge/errors"
	"github.com/glintui/glint-bridge/object"
	"github.com/glintui/glint-bridge/variant"
)

// Manifest represents a glint.toml configuration.
type Manifest struct {
	Application Application `toml:"application"`
	Logging     Logging     `toml:"logging"`
	Guest       Guest       `toml:"guest"`
	ClassDecls  []ClassDecl `toml:"class"`

	// Path is the file the manifest was loaded from (set at load time).
	Path string `toml:"-"`
}

// Application contains application identity passed to the event loop.
type Application struct {
	Name         string   `toml:"name"`
	Organization string   `toml:"organization"`
	Version      string   `toml:"version"`
	Args         []string `toml:"args"`
}

// Logging configures the host logger.
type Logging struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Guest selects the wasm guest and the host namespaces it may import.
type Guest struct {
	Module     string   `toml:"module"`
	Namespaces []string `toml:"namespaces"`
}

// ClassDecl declares one property class.
type ClassDecl struct {
	Name       string         `toml:"name"`
	Properties []PropertyDecl `toml:"property"`
}

// PropertyDecl declares one property. Default accepts any TOML scalar or
// array; it is coerced to Kind when the class is built.
type PropertyDecl struct {
	Default any    `toml:"default"`
	Name    string `toml:"name"`
	Kind    string `toml:"kind"`
}

// hostNamespaces are the registrable guest surface namespaces.
var hostNamespaces = []string{"variant", "app", "tasks", "object"}

// Load reads and validates a glint.toml file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "cannot read manifest")
	}
	m, err := Decode(data)
	if err != nil {
		return nil, err
	}
	m.Path = path
	return m, nil
}

// Decode parses manifest bytes, applies defaults, and validates.
func Decode(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "manifest parse failed")
	}

	// Defaults
	if m.Application.Name == "" {
		m.Application.Name = "glint"
	}
	if m.Logging.Level == "" {
		m.Logging.Level = "info"
	}
	if len(m.Guest.Namespaces) == 0 {
		m.Guest.Namespaces = append([]string(nil), hostNamespaces...)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the declaration tables without building anything.
func (m *Manifest) Validate() error {
	if _, err := m.ZapLevel(); err != nil {
		return err
	}

	for _, ns := range m.Guest.Namespaces {
		if !knownNamespace(ns) {
			return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Path("guest", "namespaces").
				Detail("unknown namespace %q", ns).
				Build()
		}
	}

	classNames := make(map[string]bool, len(m.ClassDecls))
	for _, cd := range m.ClassDecls {
		if cd.Name == "" {
			return errors.InvalidInput(errors.PhaseConfig, "class declared without a name")
		}
		if classNames[cd.Name] {
			return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Path("class", cd.Name).
				Detail("duplicate class name").
				Build()
		}
		classNames[cd.Name] = true

		propNames := make(map[string]bool, len(cd.Properties))
		for _, pd := range cd.Properties {
			if pd.Name == "" {
				return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
					Path("class", cd.Name).
					Detail("property declared without a name").
					Build()
			}
			if propNames[pd.Name] {
				return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
					Path("class", cd.Name, pd.Name).
					Detail("duplicate property name").
					Build()
			}
			propNames[pd.Name] = true
			if _, ok := variant.ParseKind(pd.Kind); !ok {
				return errors.New(errors.PhaseConfig, errors.KindUnsupported).
					Path("class", cd.Name, pd.Name).
					Detail("unknown kind %q", pd.Kind).
					Build()
			}
		}
	}
	return nil
}

// Classes builds the declared property classes, coercing every default
// through the conversion matrix.
func (m *Manifest) Classes() ([]*object.Class, error) {
	classes := make([]*object.Class, 0, len(m.ClassDecls))
	for _, cd := range m.ClassDecls {
		props := make([]object.Property, 0, len(cd.Properties))
		for _, pd := range cd.Properties {
			kind, ok := variant.ParseKind(pd.Kind)
			if !ok {
				return nil, errors.New(errors.PhaseConfig, errors.KindUnsupported).
					Path("class", cd.Name, pd.Name).
					Detail("unknown kind %q", pd.Kind).
					Build()
			}
			def, err := defaultValue(cd.Name, pd.Name, pd.Default)
			if err != nil {
				return nil, err
			}
			props = append(props, object.Property{Name: pd.Name, Kind: kind, Default: def})
		}
		c, err := object.NewClass(cd.Name, props...)
		if err != nil {
			return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Path("class", cd.Name).
				Cause(err).
				Detail("class rejected").
				Build()
		}
		classes = append(classes, c)
	}
	return classes, nil
}

// defaultValue lifts a decoded TOML value into a variant. toml gives
// integers as int64, floats as float64, and arrays as []any.
func defaultValue(class, prop string, raw any) (*variant.Value, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case bool:
		return variant.NewBool(v), nil
	case int64:
		return variant.NewInt64(v), nil
	case float64:
		return variant.NewFloat64(v), nil
	case string:
		return variant.NewString(v), nil
	case []any:
		items := make([]*variant.Value, 0, len(v))
		for _, e := range v {
			ev, err := defaultValue(class, prop, e)
			if err != nil {
				return nil, err
			}
			items = append(items, ev)
		}
		return variant.NewListOf(items...), nil
	default:
		return nil, errors.New(errors.PhaseConfig, errors.KindUnsupported).
			Path("class", class, prop).
			Detail("default of type %T cannot become a value", raw).
			Build()
	}
}

// AppConfig maps the application section onto the event loop config.
// The logger is left for the caller to attach.
func (m *Manifest) AppConfig() app.Config {
	return app.Config{
		Name:         m.Application.Name,
		Organization: m.Application.Organization,
		Version:      m.Application.Version,
		Args:         append([]string(nil), m.Application.Args...),
	}
}

// ZapLevel parses the configured logging level.
func (m *Manifest) ZapLevel() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(m.Logging.Level)
	if err != nil {
		return zapcore.InfoLevel, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("logging", "level").
			Cause(err).
			Detail("unknown level %q", m.Logging.Level).
			Build()
	}
	return lvl, nil
}

// Logger builds the host logger described by the logging section.
func (m *Manifest) Logger() (*zap.Logger, error) {
	lvl, err := m.ZapLevel()
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	if m.Logging.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	log, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "logger build failed")
	}
	return log, nil
}

func knownNamespace(ns string) bool {
	for _, k := range hostNamespaces {
		if ns == k {
			return true
		}
	}
	return false
}
