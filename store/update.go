// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"fmt"
	"strings"

	"github.com/danielhkuo/his-registry/models"
)

// update collects SET clauses for the fields present in a patch
type update struct {
	sets []string
	args []any
}

func (u *update) set(column string, value any) {
	u.args = append(u.args, value)
	u.sets = append(u.sets, fmt.Sprintf("%s = $%d", column, len(u.args)))
}

func (u *update) setString(column string, o models.Optional[string]) {
	if o.Set {
		u.set(column, o.Value)
	}
}

// setNullableString writes NULL when the field was sent as null
func (u *update) setNullableString(column string, o models.Optional[string]) {
	if !o.Set {
		return
	}
	if o.Null {
		u.set(column, nil)
		return
	}
	u.set(column, o.Value)
}

// statement builds the UPDATE and appends id as the final argument
func (u *update) statement(table string, id int64) string {
	u.args = append(u.args, id)
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(u.sets, ", "), len(u.args))
}
