package query

import "fmt"

// Condition is one WHERE predicate.
type Condition interface {
	// SQL returns the fragment and its parameters. paramIndex numbers the
	// generated parameters (@p0, @p1, ...) so conditions never collide.
	SQL(paramIndex int) (string, map[string]interface{})
}

type eqCondition struct {
	field string
	value interface{}
}

// Eq matches rows where field equals value: Eq("owner_id", id) renders "owner_id = @p0".
func Eq(field string, value interface{}) Condition {
	return &eqCondition{field: field, value: value}
}

func (c *eqCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	name := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s = @%s", c.field, name), map[string]interface{}{name: c.value}
}

type inCondition struct {
	field  string
	values []string
}

// In matches rows whose field is one of values, bound as a single array parameter.
func In(field string, values []string) Condition {
	return &inCondition{field: field, values: values}
}

func (c *inCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	name := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s IN UNNEST(@%s)", c.field, name), map[string]interface{}{name: c.values}
}

type isNullCondition struct {
	field string
}

// IsNull matches rows where field is NULL.
func IsNull(field string) Condition {
	return &isNullCondition{field: field}
}

func (c *isNullCondition) SQL(int) (string, map[string]interface{}) {
	return fmt.Sprintf("%s IS NULL", c.field), map[string]interface{}{}
}

type isNotNullCondition struct {
	field string
}

// IsNotNull matches rows where field is not NULL.
func IsNotNull(field string) Condition {
	return &isNotNullCondition{field: field}
}

func (c *isNotNullCondition) SQL(int) (string, map[string]interface{}) {
	return fmt.Sprintf("%s IS NOT NULL", c.field), map[string]interface{}{}
}
