package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHelpers(t *testing.T) {
	before := testutil.ToFloat64(JobsProcessedTotal.WithLabelValues("refresh-feed", "success"))
	RecordJob("refresh-feed", "success", 150*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(JobsProcessedTotal.WithLabelValues("refresh-feed", "success")))

	before = testutil.ToFloat64(FeedItemsTotal.WithLabelValues(ItemQueued))
	RecordItem(ItemQueued)
	RecordItem(ItemQueued)
	assert.Equal(t, before+2, testutil.ToFloat64(FeedItemsTotal.WithLabelValues(ItemQueued)))

	before = testutil.ToFloat64(BlockedFeedsTotal)
	RecordBlockedFeed()
	assert.Equal(t, before+1, testutil.ToFloat64(BlockedFeedsTotal))

	hits := testutil.ToFloat64(ParseCacheTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(ParseCacheTotal.WithLabelValues("miss"))
	RecordParseCache(true)
	RecordParseCache(false)
	assert.Equal(t, hits+1, testutil.ToFloat64(ParseCacheTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+1, testutil.ToFloat64(ParseCacheTotal.WithLabelValues("miss")))
}
