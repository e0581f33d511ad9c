package web

import (
	"net/http"
	"strconv"
	"time"
)

// handleAdminPerf handles GET /api/admin/perf: aggregated request and query
// timings from the in-process collector. ?minutes= bounds the window
// (default 60), ?top= bounds the slowest-path lists (default 10).
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	_, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	minutes, _ := strconv.Atoi(r.URL.Query().Get("minutes"))
	if minutes < 1 {
		minutes = 60
	}
	topN, _ := strconv.Atoi(r.URL.Query().Get("top"))
	if topN < 1 {
		topN = 10
	}

	since := timeNow().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(since, topN))
}
