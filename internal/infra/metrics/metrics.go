package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncRuns — количество запусков синхронизации с ERP ЦС (по результату).
	SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "beautystock_sync_runs_total",
		Help: "ERP sync runs by result",
	}, []string{"result"})

	// FeedRecordsDropped — записи фида, отброшенные нормализатором.
	FeedRecordsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "beautystock_feed_records_dropped_total",
		Help: "Feed records dropped during normalization",
	}, []string{"feed"})

	// DraftsSubmitted — проведённые черновики по типу операции.
	DraftsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "beautystock_drafts_submitted_total",
		Help: "Submitted drafts by flow",
	}, []string{"flow"})
)
