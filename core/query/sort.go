package query

import (
	"fmt"
	"sort"

	"github.com/asaidimu/go-frame/core/table"
)

// applySort reorders rows by the given keys. The sort is stable; ties on the
// first key are broken by subsequent keys in list order. Missing values sort
// first ascending and last descending.
func applySort(t *table.Table, keys []SortKey) (*table.Table, error) {
	for _, key := range keys {
		if !t.Schema().Has(key.Column) {
			return nil, &table.MissingColumnError{Column: key.Column}
		}
		if key.Direction != SortDirectionAsc && key.Direction != SortDirectionDesc {
			return nil, fmt.Errorf("sort key %q: unsupported direction %q", key.Column, key.Direction)
		}
	}

	rows := t.Rows()
	var sortErr error

	sort.SliceStable(rows, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		for _, key := range keys {
			desc := key.Direction == SortDirectionDesc
			vi := rows[i][key.Column]
			vj := rows[j][key.Column]

			if vi == nil && vj == nil {
				continue
			}
			if vi == nil {
				return !desc
			}
			if vj == nil {
				return desc
			}

			cmp, err := table.Compare(vi, vj)
			if err != nil {
				sortErr = &table.TypeMismatchError{
					Column: key.Column,
					Want:   fmt.Sprintf("%T", vi),
					Got:    fmt.Sprintf("%T", vj),
				}
				return false
			}
			if cmp != 0 {
				if desc {
					return cmp > 0
				}
				return cmp < 0
			}
		}
		return false
	})

	if sortErr != nil {
		return nil, sortErr
	}
	return table.New(t.Schema(), rows)
}

// applyLimit slices the rows to the configured window.
func applyLimit(t *table.Table, cfg *LimitConfig) (*table.Table, error) {
	if cfg.Limit < 0 || cfg.Offset < 0 {
		return nil, fmt.Errorf("limit and offset must be non-negative")
	}

	rows := t.Rows()
	start := cfg.Offset
	if start > len(rows) {
		start = len(rows)
	}
	end := len(rows)
	if cfg.Limit > 0 && start+cfg.Limit < end {
		end = start + cfg.Limit
	}
	return table.New(t.Schema(), rows[start:end])
}
