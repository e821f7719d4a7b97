package port

// Copy outcomes reported to ReportMetrics
const (
	CopyOutcomeSuccess = "success"
	CopyOutcomeDenied  = "denied"
	CopyOutcomeEmpty   = "empty"
)

// ReportMetrics records report activity
type ReportMetrics interface {
	ReportGenerated(kind string, missingFields int)
	ReportCopied(kind, outcome string)
}
