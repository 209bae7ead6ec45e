package acquire

// Data-source labels shown next to the dashboard.
const (
	SourceUpload = "Uploaded Files"
	SourceSample = "Sample Data"
)

// Periods offered by the remote selector, in display order.
var Periods = []string{"day", "month", "3months", "6months"}

// PeriodLabel maps a remote period to its display text. Unknown periods
// pass through verbatim.
func PeriodLabel(period string) string {
	switch period {
	case "day":
		return "Today"
	case "month":
		return "This Month"
	case "3months":
		return "Last 3 Months"
	case "6months":
		return "Last 6 Months"
	}
	return period
}

// RemoteSource is the data-source label for a remote fetch.
func RemoteSource(period string) string {
	return "ROA API (" + PeriodLabel(period) + ")"
}
