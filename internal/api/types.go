package api

import "github.com/guregu/null/v6"

// StatisticsResponse from GET /stock/get-statistics
type StatisticsResponse struct {
	Result []StatisticsResult `json:"result"`
}

// StatisticsResult is one statistics block of a response.
type StatisticsResult struct {
	ID    string      `json:"id"`
	Title string      `json:"title"`
	Table []Statistic `json:"table"`
}

// Statistic is a single named value, e.g. {"name": "Market Cap (M)", "value": "2,801,455"}.
// Value is null when the API has no figure for the entity.
type Statistic struct {
	Name  string      `json:"name"`
	Value null.String `json:"value"`
}

// Statistics returns the table of the first result, or nil when the response has none.
func (r *StatisticsResponse) Statistics() []Statistic {
	if r == nil || len(r.Result) == 0 {
		return nil
	}
	return r.Result[0].Table
}
