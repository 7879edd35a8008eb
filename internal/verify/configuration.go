package verify

import "strings"

const (
	defaultSourceRootConstant      = "/var/svn"
	defaultTargetRootConstant      = "/var/git"
	defaultTargetSuffixConstant    = ".git"
	defaultTrunkNameConstant       = "trunk"
	defaultMarkerFileNameConstant  = "README.md"
	defaultExpectedOwnerConstant   = "git"
	defaultServerConfigKeyConstant = "http.receivepack"

	configurationKeySeparatorConstant     = "."
	sourceRootConfigurationKeyConstant    = "source_root"
	targetRootConfigurationKeyConstant    = "target_root"
	targetSuffixConfigurationKeyConstant  = "target_suffix"
	trunkNameConfigurationKeyConstant     = "trunk_name"
	markerFileConfigurationKeyConstant    = "marker_file"
	expectedOwnerConfigurationKeyConstant = "expected_owner"
	serverConfigConfigurationKeyConstant  = "server_config_key"
)

// CommandConfiguration captures persisted configuration for the verify command.
type CommandConfiguration struct {
	SourceRoot      string `mapstructure:"source_root"`
	TargetRoot      string `mapstructure:"target_root"`
	TargetSuffix    string `mapstructure:"target_suffix"`
	TrunkName       string `mapstructure:"trunk_name"`
	MarkerFileName  string `mapstructure:"marker_file"`
	ExpectedOwner   string `mapstructure:"expected_owner"`
	ServerConfigKey string `mapstructure:"server_config_key"`
	ReportPath      string `mapstructure:"report_path"`
}

// DefaultCommandConfiguration returns baseline configuration values for migration validation.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		SourceRoot:      defaultSourceRootConstant,
		TargetRoot:      defaultTargetRootConstant,
		TargetSuffix:    defaultTargetSuffixConstant,
		TrunkName:       defaultTrunkNameConstant,
		MarkerFileName:  defaultMarkerFileNameConstant,
		ExpectedOwner:   defaultExpectedOwnerConstant,
		ServerConfigKey: defaultServerConfigKeyConstant,
	}
}

// DefaultConfigurationValues exposes the baseline configuration map used to
// seed the configuration loader under the provided key prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	prefixedKey := func(configurationKey string) string {
		return configurationKeyPrefix + configurationKeySeparatorConstant + configurationKey
	}
	return map[string]any{
		prefixedKey(sourceRootConfigurationKeyConstant):    defaults.SourceRoot,
		prefixedKey(targetRootConfigurationKeyConstant):    defaults.TargetRoot,
		prefixedKey(targetSuffixConfigurationKeyConstant):  defaults.TargetSuffix,
		prefixedKey(trunkNameConfigurationKeyConstant):     defaults.TrunkName,
		prefixedKey(markerFileConfigurationKeyConstant):    defaults.MarkerFileName,
		prefixedKey(expectedOwnerConfigurationKeyConstant): defaults.ExpectedOwner,
		prefixedKey(serverConfigConfigurationKeyConstant):  defaults.ServerConfigKey,
	}
}

// Sanitize trims configured values and restores defaults for cleared fields
// whose empty value would make the validation sequence meaningless.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := CommandConfiguration{
		SourceRoot:      strings.TrimSpace(configuration.SourceRoot),
		TargetRoot:      strings.TrimSpace(configuration.TargetRoot),
		TargetSuffix:    strings.TrimSpace(configuration.TargetSuffix),
		TrunkName:       strings.TrimSpace(configuration.TrunkName),
		MarkerFileName:  strings.TrimSpace(configuration.MarkerFileName),
		ExpectedOwner:   strings.TrimSpace(configuration.ExpectedOwner),
		ServerConfigKey: strings.TrimSpace(configuration.ServerConfigKey),
		ReportPath:      strings.TrimSpace(configuration.ReportPath),
	}
	if len(sanitized.SourceRoot) == 0 {
		sanitized.SourceRoot = defaults.SourceRoot
	}
	if len(sanitized.TargetRoot) == 0 {
		sanitized.TargetRoot = defaults.TargetRoot
	}
	if len(sanitized.TrunkName) == 0 {
		sanitized.TrunkName = defaults.TrunkName
	}
	if len(sanitized.MarkerFileName) == 0 {
		sanitized.MarkerFileName = defaults.MarkerFileName
	}
	if len(sanitized.ExpectedOwner) == 0 {
		sanitized.ExpectedOwner = defaults.ExpectedOwner
	}
	if len(sanitized.ServerConfigKey) == 0 {
		sanitized.ServerConfigKey = defaults.ServerConfigKey
	}
	return sanitized
}

// RunOptions carries the effective settings for one validation run.
type RunOptions struct {
	SourceRoot      string
	TargetRoot      string
	TargetSuffix    string
	TrunkName       string
	MarkerFileName  string
	ExpectedOwner   string
	ServerConfigKey string
	ReportPath      string
}

// RunOptionsFromConfiguration translates sanitized configuration into run options.
func RunOptionsFromConfiguration(configuration CommandConfiguration) RunOptions {
	sanitized := configuration.Sanitize()
	return RunOptions{
		SourceRoot:      sanitized.SourceRoot,
		TargetRoot:      sanitized.TargetRoot,
		TargetSuffix:    sanitized.TargetSuffix,
		TrunkName:       sanitized.TrunkName,
		MarkerFileName:  sanitized.MarkerFileName,
		ExpectedOwner:   sanitized.ExpectedOwner,
		ServerConfigKey: sanitized.ServerConfigKey,
		ReportPath:      sanitized.ReportPath,
	}
}
