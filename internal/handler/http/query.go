package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/validator"
)

// parseRangeQuery reads start_date, end_date and user_ids from the query
// string. user_ids may be repeated or comma separated.
func parseRangeQuery(r *http.Request) attendance.RangeQuery {
	q := r.URL.Query()
	query := attendance.RangeQuery{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}
	for _, raw := range q["user_ids"] {
		query.UserIDs = append(query.UserIDs, validator.SplitList(raw)...)
	}
	return query
}
