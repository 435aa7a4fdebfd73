package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/mf-obj/app/mf"
)

// GetThread walks the conversation around url breadth first. Each entry's
// children are queued before its reply, like and repost targets. The result
// starts with the entry at url and holds every address at most once.
//
// Only a failure on url itself is returned; other entries that cannot be
// resolved are logged and left out.
func (r *Resolver) GetThread(ctx context.Context, url string) ([]*mf.Entry, error) {
	visited := map[string]bool{url: true}
	collected := map[string]bool{}
	queue := []string{url}

	var thread []*mf.Entry
	for len(queue) > 0 {
		if r.threadLimit > 0 && len(thread) >= r.threadLimit {
			slog.Debug("Thread limit reached", "url", url, "limit", r.threadLimit)
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next := queue[0]
		queue = queue[1:]

		entry, err := r.GetEntry(ctx, next)
		if err != nil {
			if next == url {
				return nil, fmt.Errorf("failed to resolve thread root: %w", err)
			}
			slog.Warn("Failed to resolve thread entry", "url", next, "error", err)
			continue
		}

		key := entry.URL
		if key == "" {
			key = next
		}
		if collected[key] {
			continue
		}
		collected[key] = true
		visited[key] = true
		thread = append(thread, entry)

		for _, child := range entry.Children() {
			if !visited[child.URL] {
				visited[child.URL] = true
				queue = append(queue, child.URL)
			}
		}
		for _, ref := range entry.References() {
			if ref != "" && !visited[ref] {
				visited[ref] = true
				queue = append(queue, ref)
			}
		}
	}

	return thread, nil
}
