package refresh_feed_usecase

import (
	"context"

	"feed-refresher/domain"
	"feed-refresher/metrics"
	"feed-refresher/port"
	"feed-refresher/utils/logger"
)

// ContentTaskDispatcher sends the consolidated content tasks of one job.
type ContentTaskDispatcher struct {
	contentFetch port.ContentFetchPort
	recentSaves  port.RecentSavePort
}

func NewContentTaskDispatcher(contentFetch port.ContentFetchPort, recentSaves port.RecentSavePort) *ContentTaskDispatcher {
	return &ContentTaskDispatcher{
		contentFetch: contentFetch,
		recentSaves:  recentSaves,
	}
}

// Dispatch sends one content fetch request per URL in the order the URLs were
// first added and returns the number of failed requests. Every user of a
// successful request is marked as recently saved.
func (d *ContentTaskDispatcher) Dispatch(ctx context.Context, feedURL string, tasks *domain.ContentTasks) int {
	failures := 0

	all := tasks.Tasks()
	for i, task := range all {
		if err := ctx.Err(); err != nil {
			logger.Logger.WarnContext(ctx, "Content dispatch interrupted", "feed_url", feedURL, "remaining", len(all)-i, "error", err)
			return failures + len(all) - i
		}

		req := domain.NewFetchContentRequest(feedURL, task)
		if err := d.contentFetch.RequestContentFetch(ctx, req); err != nil {
			failures++
			metrics.RecordContentDispatch("error")
			logger.Logger.ErrorContext(ctx, "Failed to request content fetch",
				"feed_url", feedURL,
				"url", task.URL,
				"users", len(req.Users),
				"error", err)
			continue
		}
		metrics.RecordContentDispatch("success")

		for _, user := range req.Users {
			if err := d.recentSaves.MarkRecentlySaved(ctx, user.ID, task.URL); err != nil {
				logger.Logger.WarnContext(ctx, "Failed to mark item as recently saved",
					"user_id", user.ID,
					"url", task.URL,
					"error", err)
			}
		}
	}

	return failures
}
