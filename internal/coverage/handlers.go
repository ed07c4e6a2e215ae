package coverage

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/CommunityWatchNC/CW-Backend/internal/db"
	"github.com/CommunityWatchNC/CW-Backend/internal/metrics"
	"github.com/CommunityWatchNC/CW-Backend/internal/utils"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// normalizeCounty maps the query parameter to a canonical county name;
// "all" and empty both mean the whole region. Only uniformly-cased input is
// Title-cased; mixed-case names like "McDowell" pass through as sent.
// Casers are stateful, so build one per call.
func normalizeCounty(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return ""
	}
	if raw == strings.ToLower(raw) || raw == strings.ToUpper(raw) {
		return cases.Title(language.AmericanEnglish).String(strings.ToLower(raw))
	}
	return raw
}

// ScheduleHandler serves GET /coverage/schedule?start=…&end=…&county=….
func ScheduleHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := utils.GetOrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing org in context", http.StatusUnauthorized)
		return
	}

	params := ScheduleParams{
		Start:  r.URL.Query().Get("start"),
		End:    r.URL.Query().Get("end"),
		County: normalizeCounty(r.URL.Query().Get("county")),
	}

	resp, err := BuildSchedule(r.Context(), GormStore{}, GormStore{}, orgID, params)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingDateRange),
			errors.Is(err, ErrMalformedDate),
			errors.Is(err, ErrInvertedDateRange),
			errors.Is(err, ErrDateRangeTooWide):
			metrics.ScheduleRequestsTotal.WithLabelValues("bad_request").Inc()
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			metrics.ScheduleRequestsTotal.WithLabelValues("error").Inc()
			log.Printf("schedule build failed for org %s: %v", orgID, err)
			http.Error(w, "Failed to build coverage schedule", http.StatusInternalServerError)
		}
		return
	}

	metrics.ScheduleRequestsTotal.WithLabelValues("ok").Inc()
	writeJSON(w, resp)
}

// ZonesHandler serves GET /coverage/zones: the org's active zones.
func ZonesHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := utils.GetOrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing org in context", http.StatusUnauthorized)
		return
	}

	var zones []Zone
	if err := db.DB.Where("org_id = ? AND active = ?", orgID, true).
		Order("county, name").Find(&zones).Error; err != nil {
		http.Error(w, "Failed to fetch zones: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, zones)
}

// CountiesHandler serves GET /coverage/counties: sorted distinct county
// names among the org's active zones.
func CountiesHandler(w http.ResponseWriter, r *http.Request) {
	orgID, ok := utils.GetOrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing org in context", http.StatusUnauthorized)
		return
	}

	var counties []string
	if err := db.DB.Model(&Zone{}).Distinct("county").
		Where("org_id = ? AND active = ? AND county <> ''", orgID, true).
		Pluck("county", &counties).Error; err != nil {
		http.Error(w, "Failed to fetch counties: "+err.Error(), http.StatusInternalServerError)
		return
	}
	sort.Strings(counties)

	writeJSON(w, counties)
}
