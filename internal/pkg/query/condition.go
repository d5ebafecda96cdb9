package query

import (
	"fmt"
	"strings"
)

// Condition represents a WHERE clause condition.
// Implementations must generate SQL fragments and parameter maps
// using Spanner's named parameter format (@paramName).
type Condition interface {
	// SQL returns the SQL fragment and parameter map for this condition.
	// paramIndex is used to generate unique parameter names (@p0, @p1, etc.)
	SQL(paramIndex int) (string, map[string]interface{})
}

// inCondition implements set membership against an array parameter.
type inCondition struct {
	field  string
	values []string
}

// In creates a WHERE condition matching rows whose field is one of values.
// Example: In("p.brand_id", ids) generates "p.brand_id IN UNNEST(@p0)"
// A NULL field never matches.
func In(field string, values []string) Condition {
	cp := make([]string, len(values))
	copy(cp, values)
	return &inCondition{field: field, values: cp}
}

// SQL generates the SQL fragment for set membership.
func (c *inCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s IN UNNEST(@%s)", c.field, paramName), map[string]interface{}{
		paramName: c.values,
	}
}

// containsFoldCondition implements a case-insensitive literal substring match.
type containsFoldCondition struct {
	field string
	term  string
}

// ContainsFold creates a WHERE condition matching rows whose field contains
// term, ignoring case. The term is matched literally: '%' and '_' carry no
// wildcard meaning.
// Example: ContainsFold("p.name", "Laptop") generates "STRPOS(LOWER(p.name), @p0) > 0"
// with @p0 = "laptop".
func ContainsFold(field, term string) Condition {
	return &containsFoldCondition{field: field, term: term}
}

// SQL generates the SQL fragment for the substring match.
func (c *containsFoldCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("STRPOS(LOWER(%s), @%s) > 0", c.field, paramName), map[string]interface{}{
		paramName: strings.ToLower(c.term),
	}
}
