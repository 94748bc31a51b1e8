package main

import (
	"github.com/gravitational/trace"
	"github.com/pelletier/go-toml"

	"github.com/withkit/withings/client"
	"github.com/withkit/withings/lib/logger"
)

// Config stores the full configuration for the withings CLI to run.
type Config struct {
	Withings WithingsConfig `toml:"withings"`
	Log      logger.Config  `toml:"log"`
}

// WithingsConfig holds the application registration and the data directory.
type WithingsConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	State        string `toml:"state"`
	Scope        string `toml:"scope"`
	Demo         bool   `toml:"demo"`
	DataDir      string `toml:"data_dir"`
}

const exampleConfig = `# Example withings CLI configuration TOML file

[withings]
client_id = "your-client-id"          # Application client ID
client_secret = "your-client-secret"  # Application client secret
redirect_uri = "https://example.com/callback"
# state = ""                          # Optional, generated when empty
# scope = "user.info,user.metrics,user.activity"
# demo = false                        # Use the Withings demo user
data_dir = "data"                     # Where credentials and responses are stored

[log]
output = "stderr" # Logger output. Could be "stdout", "stderr" or "/var/log/withings.log"
severity = "INFO" # Logger severity. Could be "INFO", "ERROR", "DEBUG" or "WARN".
`

// LoadConfig reads the config file, initializes a new Config struct object, and returns it.
// Optionally returns an error if the file is not readable, or if file format is invalid.
func LoadConfig(filepath string) (*Config, error) {
	t, err := toml.LoadFile(filepath)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	conf := &Config{}
	if err := t.Unmarshal(conf); err != nil {
		return nil, trace.Wrap(err)
	}
	if err := conf.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	return conf, nil
}

// CheckAndSetDefaults checks the config struct for any logical errors, and sets default values
// if some values are missing.
// If critical values are missing and we can't set defaults for them — this will return an error.
func (c *Config) CheckAndSetDefaults() error {
	if c.Withings.ClientID == "" {
		return trace.BadParameter("missing required value withings.client_id")
	}
	if c.Withings.ClientSecret == "" {
		return trace.BadParameter("missing required value withings.client_secret")
	}
	if c.Withings.RedirectURI == "" {
		return trace.BadParameter("missing required value withings.redirect_uri")
	}
	if c.Withings.DataDir == "" {
		c.Withings.DataDir = "data"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stderr"
	}
	if c.Log.Severity == "" {
		c.Log.Severity = "info"
	}
	return nil
}

// Registration builds the client registration from the configuration.
func (c *Config) Registration() (*client.Registration, error) {
	reg := &client.Registration{
		ClientID:     c.Withings.ClientID,
		ClientSecret: c.Withings.ClientSecret,
		RedirectURI:  c.Withings.RedirectURI,
		State:        c.Withings.State,
		Scope:        c.Withings.Scope,
		Demo:         c.Withings.Demo,
	}
	if err := reg.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	return reg, nil
}
