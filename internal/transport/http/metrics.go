package httptransport

import "expvar"

var (
	metricStreamConnectionsTotal  = expvar.NewInt("stream_connections_total")
	metricStreamConnectionsActive = expvar.NewInt("stream_connections_active")

	metricHistoryQueryTotal  = expvar.NewInt("history_query_total")
	metricHistoryQueryErrors = expvar.NewInt("history_query_errors_total")

	metricReplayStartTotal  = expvar.NewInt("replay_start_total")
	metricReplayStartErrors = expvar.NewInt("replay_start_errors_total")
)
