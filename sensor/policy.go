package sensor

import "github.com/casualjim/tripwire/events"

// Policy decides whether a reading is alert-worthy for a given threshold.
// Policies are pure.
type Policy func(value, threshold float64) bool

func above(value, threshold float64) bool { return value > threshold }
func below(value, threshold float64) bool { return value < threshold }
func never(float64, float64) bool         { return false }

type rule struct {
	policy Policy
	when   string
}

var unknownRule = rule{never, "never"}

var policies = map[events.Type]rule{
	events.Temperature: {above, "value > threshold"},
	events.Pressure:    {below, "value < threshold"},
	events.Humidity:    {above, "value > threshold"},
	events.Unknown:     unknownRule,
}

func ruleFor(typ events.Type) rule {
	if r, ok := policies[typ]; ok {
		return r
	}
	return unknownRule
}

// PolicyFor returns the threshold policy of a sensor type. Types without an
// entry get the unknown policy, which never triggers.
func PolicyFor(typ events.Type) Policy {
	return ruleFor(typ).policy
}

// Describe returns a human readable form of the policy of typ.
func Describe(typ events.Type) string {
	return ruleFor(typ).when
}

// Triggers reports whether value crosses threshold for a sensor of type typ.
func Triggers(typ events.Type, value, threshold float64) bool {
	return PolicyFor(typ)(value, threshold)
}
