package translations

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslationHelperDefaultsAndOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LINEAR_MCP_TOOL_EXAMPLE_DESCRIPTION", "translated")

	translate, _ := TranslationHelper()

	assert.Equal(t, "translated", translate("TOOL_EXAMPLE_DESCRIPTION", "default"))
	assert.Equal(t, "fallback", translate("TOOL_OTHER_DESCRIPTION", "fallback"))
}

func TestDumpTranslationsWritesConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	translate, dump := TranslationHelper()
	translate("TOOL_EXAMPLE_DESCRIPTION", "default")
	dump()

	contents, err := os.ReadFile(filepath.Join(dir, "linear-mcp-server-config.json"))
	require.NoError(t, err)

	var keys map[string]string
	require.NoError(t, json.Unmarshal(contents, &keys))
	assert.Equal(t, "default", keys["TOOL_EXAMPLE_DESCRIPTION"])
}

func TestDumpTranslationsSurvivesUnwritableDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("directory permissions are not enforced the same way on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory write permissions")
	}

	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })
	t.Chdir(dir)

	translate, dump := TranslationHelper()
	translate("TOOL_EXAMPLE_DESCRIPTION", "default")

	// The dump logs the failure instead of terminating the process.
	dump()

	_, err := os.Stat(filepath.Join(dir, "linear-mcp-server-config.json"))
	assert.True(t, os.IsNotExist(err))
}
