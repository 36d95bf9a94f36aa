package config

import (
	"fmt"

	"github.com/bianoble/docsync/internal/pathexpr"
)

// Config represents the docsync.yaml job file.
type Config struct {
	Version  int      `yaml:"version" mapstructure:"version"`
	Defaults Defaults `yaml:"defaults,omitempty" mapstructure:"defaults"`
	Jobs     []Job    `yaml:"jobs" mapstructure:"jobs"`
}

// Defaults holds the switches applied to every job that does not set its
// own. Nil means unset.
type Defaults struct {
	Backup   *bool  `yaml:"backup,omitempty" mapstructure:"backup"`
	Comments *bool  `yaml:"comments,omitempty" mapstructure:"comments"`
	Binary   *bool  `yaml:"binary,omitempty" mapstructure:"binary"`
	Encoding string `yaml:"encoding,omitempty" mapstructure:"encoding"`
}

// Job is one source to target sync.
type Job struct {
	Name     string   `yaml:"name" mapstructure:"name"`
	Source   string   `yaml:"source" mapstructure:"source"`
	Target   string   `yaml:"target" mapstructure:"target"`
	Sections []string `yaml:"sections,omitempty" mapstructure:"sections"`

	Backup   *bool  `yaml:"backup,omitempty" mapstructure:"backup"`
	Comments *bool  `yaml:"comments,omitempty" mapstructure:"comments"`
	Binary   *bool  `yaml:"binary,omitempty" mapstructure:"binary"`
	Encoding string `yaml:"encoding,omitempty" mapstructure:"encoding"`
}

// Settings are the effective switches of a job.
type Settings struct {
	Backup   bool
	Comments bool
	Binary   bool
	Encoding string
}

// Settings resolves the switches of job: the job's own values first, then
// the file defaults, then the built-in defaults.
func (c *Config) Settings(job Job) Settings {
	s := Settings{
		Backup:   pick(job.Backup, c.Defaults.Backup, false),
		Comments: pick(job.Comments, c.Defaults.Comments, true),
		Binary:   pick(job.Binary, c.Defaults.Binary, false),
		Encoding: job.Encoding,
	}
	if s.Encoding == "" {
		s.Encoding = c.Defaults.Encoding
	}
	if s.Encoding == "" {
		s.Encoding = "utf-8"
	}
	return s
}

// Job returns the job called name.
func (c *Config) Job(name string) (Job, bool) {
	for _, j := range c.Jobs {
		if j.Name == name {
			return j, true
		}
	}
	return Job{}, false
}

// Mappings parses the job's section strings. It returns nil when the job
// copies whole files.
func (j Job) Mappings() ([]pathexpr.SectionMapping, error) {
	if len(j.Sections) == 0 {
		return nil, nil
	}
	mappings := make([]pathexpr.SectionMapping, 0, len(j.Sections))
	for i, s := range j.Sections {
		m, err := pathexpr.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("section[%d] '%s': %w", i, s, err)
		}
		mappings = append(mappings, m)
	}
	return mappings, nil
}

func pick(job, def *bool, builtin bool) bool {
	if job != nil {
		return *job
	}
	if def != nil {
		return *def
	}
	return builtin
}
