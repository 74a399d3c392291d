package workflow

// Phase is the session stage.
type Phase string

const (
	PhaseSelecting      Phase = "selecting"
	PhaseQuizLoading    Phase = "quiz_loading"
	PhaseQuizAnswering  Phase = "quiz_answering"
	PhaseReportLoading  Phase = "report_loading"
	PhaseReportReady    Phase = "report_ready"
	PhaseMatchUploading Phase = "match_uploading"
	PhaseMatchReady     Phase = "match_ready"
)

// Loading reports whether a collaborator request is outstanding in p.
func (p Phase) Loading() bool {
	switch p {
	case PhaseQuizLoading, PhaseReportLoading, PhaseMatchUploading:
		return true
	}
	return false
}

// HasReport reports whether a report is available in p.
func (p Phase) HasReport() bool {
	switch p {
	case PhaseReportReady, PhaseMatchUploading, PhaseMatchReady:
		return true
	}
	return false
}
