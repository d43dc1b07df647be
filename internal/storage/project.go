package storage

import (
	"context"
	"strconv"
)

// CurrentProject returns the saved default project, or 0 when none is set.
func CurrentProject(ctx context.Context, kv KV) int64 {
	raw, ok, err := kv.Get(ctx, KeyCurrentProject)
	if err != nil || !ok {
		return 0
	}
	id, _ := strconv.ParseInt(raw, 10, 64)
	return id
}

// SetCurrentProject saves id as the default project; 0 clears it.
func SetCurrentProject(ctx context.Context, kv KV, id int64) error {
	if id == 0 {
		return kv.Delete(ctx, KeyCurrentProject)
	}
	return kv.Set(ctx, KeyCurrentProject, strconv.FormatInt(id, 10))
}
