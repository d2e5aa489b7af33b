package mealinfo

import (
	"fmt"
	"gopkg.in/yaml.v2"
	"os"
	"regexp"
	"strings"
	"time"
)

const DefaultConfigPath = "./mealinfo.yaml"
const ConfigPathEnvName = "MEALINFO_CONFIG"
const APIKeyEnvName = "NEIS_API_KEY"
const APIHostEnvName = "NEIS_API_HOST"

const DefaultApiUrl = "https://open.neis.go.kr/hub/mealServiceDietInfo"
const DefaultRelayUrl = "https://api.allorigins.win/raw"
const DefaultRelayParam = "url"
const DefaultOfficeCode = "R10"
const DefaultSchoolCode = "8761121"
const DefaultTimeout = 10
const DefaultDumpDir = "./dump"

const RelayTypeQuery = "query"
const RelayTypeProxy = "proxy"

var HostPattern = regexp.MustCompile(`(?i)https?://([^/]+)`)

// Config is read once at startup and never mutated by the fetcher.
type Config struct {
	Debug          bool   `yaml:"debug"`
	FixtureMode    bool   `yaml:"fixture_mode"`
	ApiUrl         string `yaml:"api_url"`
	ApiKey         string `yaml:"api_key"`
	ApiKeySSMParam string `yaml:"api_key_ssm_param"`
	ResponseType   string `yaml:"response_type"`
	OfficeCode     string `yaml:"office_code"`
	SchoolCode     string `yaml:"school_code"`
	Timezone       string `yaml:"timezone"`
	Timeout        int    `yaml:"timeout"`
	RelayType      string `yaml:"relay_type"`
	RelayUrl       string `yaml:"relay_url"`
	RelayParam     string `yaml:"relay_param"`
	DumpDir        string `yaml:"dump_dir"`
	DumpOutput     bool   `yaml:"dump_output"`
	DumpOutputS3   bool   `yaml:"dump_output_s3"`
	DumpBucket     string `yaml:"dump_bucket"`
	DumpS3Prefix   string `yaml:"dump_s3_prefix"`
	AWSRegion      string `yaml:"aws_region"`
}

func DefaultConfig() *Config {
	return &Config{
		ApiUrl:       DefaultApiUrl,
		OfficeCode:   DefaultOfficeCode,
		SchoolCode:   DefaultSchoolCode,
		Timeout:      DefaultTimeout,
		RelayType:    RelayTypeQuery,
		RelayUrl:     DefaultRelayUrl,
		RelayParam:   DefaultRelayParam,
		DumpDir:      DefaultDumpDir,
		DumpS3Prefix: DefaultDumpS3Prefix,
	}
}

func NewConfigDefaultPath() (*Config, error) {
	configPath := os.Getenv(ConfigPathEnvName)
	if len(configPath) == 0 {
		configPath = DefaultConfigPath
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		Log.Debugf("No config file at %s, using defaults", configPath)
		config := DefaultConfig()
		ConfigureLogging(config)
		if err := config.applyEnvironment(); err != nil {
			return nil, err
		}
		return config, config.Validate()
	}

	return NewConfig(configPath)
}

func NewConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)

	// fields missing from the file keep their defaults
	if err := d.Decode(config); err != nil {
		return nil, fmt.Errorf("Could not parse config %s: %w", configPath, err)
	}

	ConfigureLogging(config)

	if err := config.applyEnvironment(); err != nil {
		return nil, err
	}

	Log.Debugf("Meal API URL: %s", config.ApiUrl)
	Log.Debugf("Relay (%s): %s", config.RelayType, config.RelayUrl)

	return config, config.Validate()
}

func (c *Config) applyEnvironment() error {
	//replace host portion of url, usually for testing
	hostOverride := os.Getenv(APIHostEnvName)
	if len(hostOverride) > 0 {
		newApiUrl, err := ReplaceHost(c.ApiUrl, hostOverride)
		if err != nil {
			return err
		}
		c.ApiUrl = newApiUrl
	}

	if len(c.ApiKey) == 0 {
		c.ApiKey = os.Getenv(APIKeyEnvName)
		if len(c.ApiKey) > 0 {
			Log.Debugf("API key found in environment variable %s", APIKeyEnvName)
		}
	}

	if len(c.ApiKey) == 0 && len(c.ApiKeySSMParam) > 0 {
		key, err := LookupAPIKey(c)
		if err != nil {
			Log.Errorf("Could not get api key from AWS: %v", err)
		} else {
			c.ApiKey = key
			Log.Debugf("API key found in AWS parameter '%s'", c.ApiKeySSMParam)
		}
	}

	if len(c.ApiKey) == 0 {
		// the upstream api serves a limited sample without a key
		Log.Debugf("No API key configured")
	}

	return nil
}

func (c *Config) Validate() error {
	if len(c.ApiUrl) == 0 {
		return fmt.Errorf("api_url must not be empty")
	}

	if len(c.OfficeCode) == 0 || len(c.SchoolCode) == 0 {
		return fmt.Errorf("office_code and school_code must both be set")
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, configured: %d", c.Timeout)
	}

	switch c.RelayType {
	case "", RelayTypeQuery, RelayTypeProxy:
	default:
		return fmt.Errorf("Unknown relay type: %s", c.RelayType)
	}

	if c.DumpOutputS3 && len(c.DumpBucket) == 0 {
		return fmt.Errorf("dump_output_s3 requires dump_bucket")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// Location is the zone "today" is computed in, the local zone when unset.
func (c *Config) Location() (*time.Location, error) {
	if len(c.Timezone) == 0 {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("Invalid timezone %s: %w", c.Timezone, err)
	}

	return loc, nil
}

func ReplaceHost(originalUrl string, host string) (string, error) {
	matches := HostPattern.FindStringSubmatch(originalUrl)
	if len(matches) < 2 {
		return "", fmt.Errorf("Could not parse host from url: %s", originalUrl)
	}

	originalHost := matches[1]
	newUrl := strings.Replace(originalUrl, originalHost, host, 1)

	return newUrl, nil
}
