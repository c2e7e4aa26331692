package translations

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// TranslationHelperFunc returns the override for a description key, falling
// back to the provided default when no override is configured.
type TranslationHelperFunc func(key string, defaultValue string) string

func NullTranslationHelper(_ string, defaultValue string) string {
	return defaultValue
}

// TranslationHelper loads description overrides from the environment
// (LINEAR_MCP_ prefixed variables) and from an optional
// linear-mcp-server-config.json in the working directory. The returned dump
// function writes every key seen so far back to that file, which is how the
// override template is produced.
func TranslationHelper() (TranslationHelperFunc, func()) {
	translationKeyMap := map[string]string{}
	v := viper.New()

	v.SetEnvPrefix("LINEAR_MCP")
	v.AutomaticEnv()

	v.SetConfigName("linear-mcp-server-config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("no translation config file found, using defaults: %v", err)
	}

	return func(key string, defaultValue string) string {
			key = strings.ToUpper(key)
			if value, ok := translationKeyMap[key]; ok {
				return value
			}

			value := v.GetString(key)
			if value == "" {
				v.Set(key, defaultValue)
				value = defaultValue
			}

			translationKeyMap[key] = value
			return value
		}, func() {
			if err := dumpTranslationKeyMap(translationKeyMap); err != nil {
				log.Printf("failed to export translations: %v", err)
			}
		}
}

func dumpTranslationKeyMap(translationKeyMap map[string]string) error {
	file, err := os.Create("linear-mcp-server-config.json")
	if err != nil {
		return fmt.Errorf("failed to create translation config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(translationKeyMap); err != nil {
		return fmt.Errorf("failed to write translation config file: %w", err)
	}

	return nil
}
