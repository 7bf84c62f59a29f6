package models

// QueryRequest carries the user-settable filter controls as query parameters.
// Omitted dates and altitude bounds default to the dataset extent.
type QueryRequest struct {
	StartDate  string   `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string   `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
	AltMin     *float64 `query:"alt_min"`
	AltMax     *float64 `query:"alt_max"`
	Satellites []string `query:"sat"`
	Resolution string   `query:"resolution" default:"all" validate:"oneof=all 5m 10m 30m"`
}

// TrackRequest selects one satellite's full trajectory.
type TrackRequest struct {
	Name string `param:"name" validate:"required"`
}
