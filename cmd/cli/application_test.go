package cli_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/migv/cmd/cli"
)

func TestEmbeddedDefaultConfigurationParses(testInstance *testing.T) {
	configurationContent, configurationType := cli.EmbeddedDefaultConfiguration()
	require.NotEmpty(testInstance, configurationContent)
	require.Equal(testInstance, "yaml", configurationType)

	parsedConfiguration := map[string]any{}
	require.NoError(testInstance, yaml.Unmarshal(configurationContent, &parsedConfiguration))
	require.Contains(testInstance, parsedConfiguration, "common")
	require.Contains(testInstance, parsedConfiguration, "tools")
}

func TestEmbeddedDefaultConfigurationReturnsCopies(testInstance *testing.T) {
	firstCopy, _ := cli.EmbeddedDefaultConfiguration()
	firstCopy[0] = '#'

	secondCopy, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, firstCopy[0], secondCopy[0])
}
