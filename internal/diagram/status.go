package diagram

import (
	"fmt"
	"strconv"
)

// OpStatus tracks one backend resource: Idle -> Loading -> Success | Failed.
type OpStatus int

const (
	StatusIdle OpStatus = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

func (s OpStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("OpStatus(%d)", int(s))
	}
}

// Resource keys used for status tracking and single-flight deduplication.
const (
	ResourceTables        = "tables"
	ResourceRelationships = "relationships"
	ResourceCreate        = "create"
)

func ResourceColumns(table string) string { return "columns:" + table }
func ResourceDelete(id int64) string      { return "delete:" + strconv.FormatInt(id, 10) }
