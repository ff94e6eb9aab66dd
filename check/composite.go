package check

import (
	"fmt"
	"strings"

	"github.com/magpierre/tableschema/datatable"
)

// LogicOp represents a logical operator for combining checks.
type LogicOp int

const (
	// LogicAND requires all checks to pass.
	LogicAND LogicOp = iota
	// LogicOR requires at least one check to pass.
	LogicOR
)

// String returns the string representation of a LogicOp.
func (op LogicOp) String() string {
	switch op {
	case LogicAND:
		return "AND"
	case LogicOR:
		return "OR"
	default:
		return fmt.Sprintf("unknown(%d)", op)
	}
}

// Composite combines multiple checks with AND or OR logic.
// The options of the member checks are ignored; the composite's own apply.
type Composite struct {
	// Checks is the list of checks to combine.
	Checks []Check

	// Logic specifies how to combine the checks (AND or OR).
	Logic LogicOp

	// Opts are the failure handling options of the combined check.
	Opts Options
}

// All returns a composite that passes when every check passes.
func All(checks ...Check) *Composite {
	return &Composite{Checks: checks, Logic: LogicAND, Opts: DefaultOptions()}
}

// Any returns a composite that passes when at least one check passes.
func Any(checks ...Check) *Composite {
	return &Composite{Checks: checks, Logic: LogicOR, Opts: DefaultOptions()}
}

// Name implements Check.
func (c *Composite) Name() string { return "composite" }

// Statistics implements Check. Composites are not serializable.
func (c *Composite) Statistics() map[string]interface{} { return nil }

// Options implements Check.
func (c *Composite) Options() Options { return c.Opts }

// Evaluate implements Check.
func (c *Composite) Evaluate(v datatable.Value) (bool, error) {
	if len(c.Checks) == 0 {
		return true, nil // Empty composite passes all values
	}

	switch c.Logic {
	case LogicAND:
		for _, ch := range c.Checks {
			passes, err := ch.Evaluate(v)
			if err != nil {
				return false, err
			}
			if !passes {
				return false, nil
			}
		}
		return true, nil

	case LogicOR:
		for _, ch := range c.Checks {
			passes, err := ch.Evaluate(v)
			if err != nil {
				return false, err
			}
			if passes {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, fmt.Errorf("unknown logic operator %d", c.Logic)
	}
}

// Description implements Check.
func (c *Composite) Description() string {
	if len(c.Checks) == 0 {
		return "empty check"
	}

	descriptions := make([]string, len(c.Checks))
	for i, ch := range c.Checks {
		descriptions[i] = ch.Description()
	}

	return "(" + strings.Join(descriptions, " "+c.Logic.String()+" ") + ")"
}
