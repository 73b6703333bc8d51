//go:build property
// +build property

package config

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func validConfig() *Config {
	return &Config{
		Freemarker: FreemarkerConfig{Naming: "relative"},
		Classpath:  []string{"."},
		Output:     OutputConfig{Dir: DefaultOutputDir, Format: DefaultOutputFormat},
		Log:        LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// TestConfigurationProperties tests configuration validation properties
func TestConfigurationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: plain relative locations are always accepted
	properties.Property("plain locations are valid", prop.ForAll(
		func(locations []string) bool {
			cfg := validConfig()
			for _, loc := range locations {
				cfg.Freemarker.Locations = append(cfg.Freemarker.Locations, "classpath:"+loc)
			}
			return validateConfig(cfg) == nil
		},
		gen.SliceOfN(5, gen.RegexMatch(`^[a-zA-Z0-9_]+(/[a-zA-Z0-9_]+)*$`)),
	))

	// Property: any location containing a parent reference is rejected
	properties.Property("traversal locations are rejected", prop.ForAll(
		func(head, tail string) bool {
			cfg := validConfig()
			cfg.Freemarker.Locations = []string{head + "/../" + tail}
			return validateConfig(cfg) != nil
		},
		gen.RegexMatch(`^[a-z]{1,8}$`),
		gen.RegexMatch(`^[a-z]{1,8}$`),
	))

	// Property: splitList never yields blank or padded items
	properties.Property("splitList output is trimmed", prop.ForAll(
		func(items []string) bool {
			for _, item := range splitList(items) {
				if item == "" || item != strings.TrimSpace(item) || strings.Contains(item, ",") {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.RegexMatch(`^[ a-z,]{0,12}$`)),
	))

	properties.TestingRun(t)
}
