// Package config loads the stack file describing which services the
// launcher starts and where their logs go.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"weatherstack/internal/models"
)

// EnvConfigPath overrides the default stack file location when set.
const EnvConfigPath = "WEATHERSTACK_CONFIG"

// DefaultFileName is the stack file looked up in the working directory.
const DefaultFileName = "stack.yaml"

// Stack is the top-level stack file structure.
type Stack struct {
	// LogDir is where log, pid, and state files live. Relative paths
	// resolve against the stack file's directory.
	LogDir   string          `yaml:"log_dir"`
	Services []ServiceConfig `yaml:"services"`
}

// ServiceConfig describes one service entry in the stack file.
type ServiceConfig struct {
	Name        string   `yaml:"name"`
	DisplayName string   `yaml:"display_name"`
	WorkDir     string   `yaml:"workdir"`
	Command     []string `yaml:"command"`
	Unit        string   `yaml:"unit"`
	LogFile     string   `yaml:"log_file"`
	Port        int      `yaml:"port"`
}

// Default returns the built-in stack: the notebook server, the dashboard
// server, and the pipeline unit of the weather-analytics deployment, rooted
// at baseDir.
func Default(baseDir string) *Stack {
	return &Stack{
		LogDir: "logs",
		Services: []ServiceConfig{
			{
				Name:        "notebook",
				DisplayName: "Jupyter",
				WorkDir:     baseDir,
				Command:     []string{"jupyter", "notebook", "--no-browser", "--port=8888"},
				LogFile:     "logs/jupyter.log",
				Port:        8888,
			},
			{
				Name:        "dashboard",
				DisplayName: "Streamlit",
				WorkDir:     baseDir,
				Command:     []string{"streamlit", "run", "scripts/dashboard/weather_dashboard.py", "--server.port", "8501"},
				LogFile:     "logs/streamlit.log",
				Port:        8501,
			},
			{
				Name: "pipeline",
				Unit: "weather-pipeline.service",
			},
		},
	}
}

// Path returns the stack file path to load: the WEATHERSTACK_CONFIG
// environment variable when set, otherwise stack.yaml in the current
// directory.
func Path() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultFileName
}

// Load reads and validates a stack file. Relative workdir, log, and log_dir
// paths are resolved against the stack file's directory so invoking the
// launcher from elsewhere does not change where things land.
func Load(path string) (*Stack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stack file: %w", err)
	}

	var stack Stack
	if err := yaml.Unmarshal(data, &stack); err != nil {
		return nil, fmt.Errorf("failed to parse stack file: %w", err)
	}

	base, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve stack file directory: %w", err)
	}
	stack.applyDefaults(base)

	if err := stack.Validate(); err != nil {
		return nil, err
	}
	return &stack, nil
}

// LoadOrDefault loads the stack file at path, falling back to the built-in
// stack when the file does not exist.
func LoadOrDefault(path string) (*Stack, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		stack := Default(wd)
		stack.applyDefaults(wd)
		return stack, nil
	}
	return Load(path)
}

func (s *Stack) applyDefaults(base string) {
	if s.LogDir == "" {
		s.LogDir = "logs"
	}
	if !filepath.IsAbs(s.LogDir) {
		s.LogDir = filepath.Join(base, s.LogDir)
	}
	for i := range s.Services {
		svc := &s.Services[i]
		if svc.WorkDir == "" {
			svc.WorkDir = base
		} else if !filepath.IsAbs(svc.WorkDir) {
			svc.WorkDir = filepath.Join(base, svc.WorkDir)
		}
		if svc.LogFile == "" && len(svc.Command) > 0 {
			svc.LogFile = filepath.Join(s.LogDir, svc.Name+".log")
		}
		if svc.LogFile != "" && !filepath.IsAbs(svc.LogFile) {
			svc.LogFile = filepath.Join(base, svc.LogFile)
		}
	}
}

// Validate checks structural invariants: unique non-empty names and exactly
// one launch strategy per service.
func (s *Stack) Validate() error {
	if len(s.Services) == 0 {
		return fmt.Errorf("stack defines no services")
	}
	seen := make(map[string]bool, len(s.Services))
	for _, svc := range s.Services {
		if svc.Name == "" {
			return fmt.Errorf("service with empty name")
		}
		if seen[svc.Name] {
			return fmt.Errorf("duplicate service name: %s", svc.Name)
		}
		seen[svc.Name] = true

		hasCommand := len(svc.Command) > 0
		hasUnit := svc.Unit != ""
		if hasCommand == hasUnit {
			return fmt.Errorf("service %s: exactly one of command or unit must be set", svc.Name)
		}
	}
	return nil
}

// Specs converts the stack's service entries into launch specs, preserving
// file order.
func (s *Stack) Specs() []models.ServiceSpec {
	specs := make([]models.ServiceSpec, 0, len(s.Services))
	for _, svc := range s.Services {
		specs = append(specs, models.ServiceSpec{
			Name:        svc.Name,
			DisplayName: svc.DisplayName,
			WorkDir:     svc.WorkDir,
			Command:     append([]string(nil), svc.Command...),
			Unit:        svc.Unit,
			LogFile:     svc.LogFile,
			Port:        svc.Port,
		})
	}
	return specs
}

// Spec returns the spec for a single named service.
func (s *Stack) Spec(name string) (models.ServiceSpec, bool) {
	for _, spec := range s.Specs() {
		if spec.Name == name {
			return spec, true
		}
	}
	return models.ServiceSpec{}, false
}
