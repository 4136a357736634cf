package dto

// SessionReportQuery captures the query string of the session report endpoints.
// Missing bounds default to the first and last week with data.
type SessionReportQuery struct {
	From        *int   `form:"from" validate:"omitempty,min=1,max=53"`
	To          *int   `form:"to" validate:"omitempty,min=1,max=53"`
	Granularity string `form:"granularity"`
	Categories  string `form:"categories"`
	Format      string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
