//go:build property
// +build property

package classpath

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestStripPrefixProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1234)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	locGen := gen.RegexMatch(`^[a-zA-Z0-9_]{1,10}(/[a-zA-Z0-9_]{1,10}){0,3}$`)

	properties.Property("prefixed and bare locations strip to the same value", prop.ForAll(
		func(loc string) bool {
			return StripPrefix(Prefix+loc) == StripPrefix(loc)
		},
		locGen,
	))

	properties.Property("other casings are left alone", prop.ForAll(
		func(loc string) bool {
			upper := strings.ToUpper(Prefix) + loc
			return StripPrefix(upper) == upper
		},
		locGen,
	))

	properties.TestingRun(t)
}
