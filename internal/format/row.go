package format

import (
	"context"

	"github.com/vk/adsgateway/internal/ctxlog"
)

// FormatRow resolves each requested field path against root, normalizes
// the result, and assembles a flat path-to-value map. The row as a whole
// never fails: a path that cannot be resolved is logged and reported as
// an explicit nil, and the key set always equals the requested paths.
// Duplicate paths are resolved independently; the last one wins.
//
// A nil in the output means "failed or genuinely absent" — the two are
// indistinguishable to callers.
func FormatRow(ctx context.Context, root any, paths []string) map[string]any {
	logger := ctxlog.FromContext(ctx)
	out := make(map[string]any, len(paths))
	for _, path := range paths {
		val, err := extract(ctx, root, path)
		if err != nil {
			logger.Warn("failed to extract field", "path", path, "error", err)
			out[path] = nil
			continue
		}
		out[path] = val
	}
	return out
}

// extract computes one field's outcome as an explicit (value, error)
// pair; FormatRow collapses failures to nil only at assembly time.
func extract(ctx context.Context, root any, path string) (any, error) {
	raw, err := Resolve(root, path)
	if err != nil {
		return nil, err
	}
	return Normalize(ctx, raw), nil
}
