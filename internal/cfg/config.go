package cfg

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/pelletier/go-toml"
)

const (
	DefUpstreamOwner       = "wordpress"
	DefUpstreamRepository  = "gutenberg"
	DefUpstreamLabel       = "Mobile App - i.e. Android or iOS"
	DefCanonicalOwner      = "WordPress"
	DefPageSize            = 100
	DefControlOwner        = "oguzkocer"
	DefControlRepository   = "version-test-bin"
	DefControlContentPath  = "gutenberg"
	DefControlWorkflowFile = "update-gutenberg.yml"
	DefControlBranch       = "trunk"
	DefMirrorBranchSource  = "gutenberg"
	DefConcurrency         = 1
	DefHTTPTimeout         = 30 * time.Second
	DefLogFormat           = "logfmt"
	DefLogLevel            = "info"
	DefLogTimeKey          = "time_iso8601"

	// MaxPageSize is the maximum number of nodes GitHub returns for a
	// single connection query.
	MaxPageSize = 100
)

type Config struct {
	Upstream           Upstream `toml:"upstream"`
	Control            Control  `toml:"control"`
	MirrorBranchSource string   `toml:"mirror_branch_source"`
	PullRequestFilter  string   `toml:"pull_request_filter"`
	Concurrency        int      `toml:"concurrency"`
	HTTPTimeout        string   `toml:"http_timeout"`
	LogFormat          string   `toml:"log_format"`
	LogLevel           string   `toml:"log_level"`
	LogTimeKey         string   `toml:"log_time_key"`

	// GithubAPIToken is read from the environment, never from the file.
	GithubAPIToken string `toml:"-"`
}

// Upstream describes the repository that is queried for pull requests.
type Upstream struct {
	Owner          string   `toml:"owner"`
	RepositoryName string   `toml:"repository"`
	Labels         []string `toml:"labels"`
	CanonicalOwner string   `toml:"canonical_owner"`
	PageSize       int      `toml:"page_size"`
}

// Control describes the repository containing the mirror branches and the CI
// workflow.
type Control struct {
	Owner          string `toml:"owner"`
	RepositoryName string `toml:"repository"`
	ContentPath    string `toml:"content_path"`
	WorkflowFile   string `toml:"workflow_file"`
	DefaultBranch  string `toml:"default_branch"`
}

// Env are the settings that are read from environment variables.
type Env struct {
	GithubAPIToken string `env:"UPDATE_GUTENBERG_PR_GITHUB_TOKEN,required,notEmpty"`
}

// Default returns a configuration with all settings set to their default
// values.
func Default() *Config {
	var c Config
	c.setDefaults()
	return &c
}

// Load reads a TOML configuration from reader.
// Settings that are missing in the file are set to their default values.
func Load(reader io.Reader) (*Config, error) {
	var result Config

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	result.setDefaults()

	return &result, nil
}

// LoadEnv sets the fields of c that are read from the environment.
// An error is returned if a required variable is missing or empty.
func (c *Config) LoadEnv() error {
	var e Env

	if err := env.Parse(&e); err != nil {
		return err
	}

	c.GithubAPIToken = e.GithubAPIToken

	return nil
}

func (c *Config) setDefaults() {
	setStrDefault(&c.Upstream.Owner, DefUpstreamOwner)
	setStrDefault(&c.Upstream.RepositoryName, DefUpstreamRepository)
	setStrDefault(&c.Upstream.CanonicalOwner, DefCanonicalOwner)
	if c.Upstream.Labels == nil {
		c.Upstream.Labels = []string{DefUpstreamLabel}
	}
	if c.Upstream.PageSize == 0 {
		c.Upstream.PageSize = DefPageSize
	}

	setStrDefault(&c.Control.Owner, DefControlOwner)
	setStrDefault(&c.Control.RepositoryName, DefControlRepository)
	setStrDefault(&c.Control.ContentPath, DefControlContentPath)
	setStrDefault(&c.Control.WorkflowFile, DefControlWorkflowFile)
	setStrDefault(&c.Control.DefaultBranch, DefControlBranch)

	setStrDefault(&c.MirrorBranchSource, DefMirrorBranchSource)
	if c.Concurrency == 0 {
		c.Concurrency = DefConcurrency
	}
	setStrDefault(&c.HTTPTimeout, DefHTTPTimeout.String())
	setStrDefault(&c.LogFormat, DefLogFormat)
	setStrDefault(&c.LogLevel, DefLogLevel)
	setStrDefault(&c.LogTimeKey, DefLogTimeKey)
}

func setStrDefault(field *string, def string) {
	if *field == "" {
		*field = def
	}
}

// HTTPTimeoutDuration returns the parsed HTTPTimeout.
func (c *Config) HTTPTimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.HTTPTimeout)
	if err != nil {
		return 0, fmt.Errorf("http_timeout: %w", err)
	}

	if d <= 0 {
		return 0, fmt.Errorf("http_timeout is %s, must be >0", d)
	}

	return d, nil
}

// Validate returns an error if a setting has an invalid value.
func (c *Config) Validate() error {
	if c.Upstream.Owner == "" || c.Upstream.RepositoryName == "" {
		return errors.New("upstream.owner and upstream.repository must be set")
	}

	if c.Upstream.CanonicalOwner == "" {
		return errors.New("upstream.canonical_owner must be set")
	}

	if len(c.Upstream.Labels) == 0 {
		return errors.New("upstream.labels must contain at least one label")
	}

	for i, l := range c.Upstream.Labels {
		if l == "" {
			return fmt.Errorf("upstream.labels: element %d is empty", i)
		}
	}

	if c.Upstream.PageSize < 1 || c.Upstream.PageSize > MaxPageSize {
		return fmt.Errorf("upstream.page_size is %d, must be between 1 and %d", c.Upstream.PageSize, MaxPageSize)
	}

	if c.Control.Owner == "" || c.Control.RepositoryName == "" {
		return errors.New("control.owner and control.repository must be set")
	}

	if c.Control.ContentPath == "" {
		return errors.New("control.content_path must be set")
	}

	if c.Control.WorkflowFile == "" {
		return errors.New("control.workflow_file must be set")
	}

	if c.Control.DefaultBranch == "" {
		return errors.New("control.default_branch must be set")
	}

	if c.MirrorBranchSource == "" {
		return errors.New("mirror_branch_source must be set")
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency is %d, must be >=1", c.Concurrency)
	}

	if _, err := c.HTTPTimeoutDuration(); err != nil {
		return err
	}

	return nil
}

func (c *Config) Marshal(writer io.Writer) error {
	return toml.NewEncoder(writer).Encode(c)
}
