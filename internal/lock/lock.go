// Package lock serializes read-modify-write cycles per username.
//
// Keys are always acquired sorted and de-duplicated, so two callers locking
// overlapping sets (a transfer A->B racing B->A) cannot deadlock.
package lock

import (
	"context"
	"sort"
)

// Unlock releases everything a Lock call acquired.
type Unlock func()

type Locker interface {
	Lock(ctx context.Context, keys ...string) (Unlock, error)
}

func orderedKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
