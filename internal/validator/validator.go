// Package validator syntax-checks emitted SQL before it is written or
// loaded, catching escaping mistakes at generation time instead of at import
// time.
package validator

import (
	"github.com/pingcap/tidb/pkg/parser"
	_ "github.com/pingcap/tidb/pkg/types/parser_driver" // Register TiDB parser driver.
	"github.com/pkg/errors"
)

// Validator wraps the TiDB parser for SQL validation.
type Validator struct {
	parser *parser.Parser
}

// New returns a Validator instance.
func New() *Validator {
	return &Validator{parser: parser.New()}
}

// Validate parses a SQL statement and returns any syntax error.
func (v *Validator) Validate(sql string) error {
	_, _, err := v.parser.Parse(sql, "", "")
	return err
}

// ValidateAll parses every statement, reporting the position of the first
// failure.
func (v *Validator) ValidateAll(statements []string) error {
	for i, stmt := range statements {
		if err := v.Validate(stmt); err != nil {
			return errors.Wrapf(err, "statement %d of %d", i+1, len(statements))
		}
	}
	return nil
}
