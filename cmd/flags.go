package cmd

import (
	"fmt"
	"strings"

	"github.com/conneroisu/ftlpack/internal/discovery"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// discoveryFlagBindings maps the shared discovery flags to config keys.
var discoveryFlagBindings = map[string]string{
	"location":  "freemarker.locations",
	"classpath": "classpath",
	"naming":    "freemarker.naming",
}

// addDiscoveryFlags adds the flags every discovering command shares.
func addDiscoveryFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("location", "L", nil,
		"template location, classpath: prefix optional (default "+discovery.DefaultLocation+")")
	cmd.Flags().StringSlice("classpath", nil, "classpath entries: directories, .jar/.zip archives or URLs (default .)")
	cmd.Flags().String("naming", "", "identifier naming (relative, last-index)")

	AddFlagValidation(cmd, "naming", func(value string) error {
		if !discovery.Naming(value).Valid() {
			return fmt.Errorf("must be %q or %q", discovery.NamingRelative, discovery.NamingLastIndex)
		}
		return nil
	})
}

// bindFlags binds flags to viper configuration keys. Binding happens when a
// command runs so sibling commands sharing a key do not overwrite each other.
func bindFlags(cmd *cobra.Command, bindings map[string]string) error {
	for flagName, configKey := range bindings {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			continue
		}
		if err := viper.BindPFlag(configKey, flag); err != nil {
			return fmt.Errorf("binding --%s: %w", flagName, err)
		}
	}
	return nil
}

// AddFlagValidation validates a flag value as it is parsed.
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:     flag.Value,
		validator: validator,
	}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.Value.Set(val)
}

// ValidateChoice accepts value when it case-insensitively equals one of
// valid.
func ValidateChoice(value string, valid []string) error {
	for _, v := range valid {
		if strings.EqualFold(v, value) {
			return nil
		}
	}
	return fmt.Errorf("invalid value %q, must be one of: %s", value, strings.Join(valid, ", "))
}
