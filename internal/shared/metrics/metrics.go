package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	FeedsFetched         int64
	FeedsFailed          int64
	ItemsFetched         int64
	ResponseCacheHits    int64
	ResponseCacheMisses  int64
	ChannelCacheHits     int64
	ChannelCacheMisses   int64
	VideosPromoted       int64
	VideosRejected       int64
	ThumbnailsBackfilled int64

	// Timings
	LastAggregationTime    time.Duration
	AverageAggregationTime time.Duration
	TotalAggregationTime   time.Duration
	AggregationCount       int64

	// Status
	StartedAt   time.Time
	LastRunTime time.Time
}

func New() *Metrics {
	return &Metrics{StartedAt: time.Now()}
}

func (m *Metrics) IncrementFeedsFetched(items int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedsFetched++
	m.ItemsFetched += int64(items)
}

func (m *Metrics) IncrementFeedsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedsFailed++
}

func (m *Metrics) IncrementResponseCache(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.ResponseCacheHits++
	} else {
		m.ResponseCacheMisses++
	}
}

func (m *Metrics) IncrementChannelCache(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.ChannelCacheHits++
	} else {
		m.ChannelCacheMisses++
	}
}

func (m *Metrics) IncrementVideos(promoted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if promoted {
		m.VideosPromoted++
	} else {
		m.VideosRejected++
	}
}

func (m *Metrics) IncrementThumbnailsBackfilled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ThumbnailsBackfilled++
}

func (m *Metrics) RecordAggregationTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastAggregationTime = duration
	m.TotalAggregationTime += duration
	m.AggregationCount++
	m.AverageAggregationTime = m.TotalAggregationTime / time.Duration(m.AggregationCount)
	m.LastRunTime = time.Now()
}

func (m *Metrics) GetStats() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lastRun := ""
	if !m.LastRunTime.IsZero() {
		lastRun = m.LastRunTime.Format(time.RFC3339)
	}

	return map[string]any{
		"feeds_fetched":               m.FeedsFetched,
		"feeds_failed":                m.FeedsFailed,
		"items_fetched":               m.ItemsFetched,
		"response_cache_hits":         m.ResponseCacheHits,
		"response_cache_misses":       m.ResponseCacheMisses,
		"channel_cache_hits":          m.ChannelCacheHits,
		"channel_cache_misses":        m.ChannelCacheMisses,
		"videos_promoted":             m.VideosPromoted,
		"videos_rejected":             m.VideosRejected,
		"thumbnails_backfilled":       m.ThumbnailsBackfilled,
		"aggregations":                m.AggregationCount,
		"last_aggregation_time_ms":    m.LastAggregationTime.Milliseconds(),
		"average_aggregation_time_ms": m.AverageAggregationTime.Milliseconds(),
		"last_run_time":               lastRun,
		"uptime_seconds":              int64(time.Since(m.StartedAt).Seconds()),
	}
}
