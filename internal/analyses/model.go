package analyses

import "time"

const (
	// StatusCompleted marks an analysis whose score blends the model match with similarity.
	StatusCompleted = "completed"
	// StatusDegraded marks an analysis reported from similarity alone.
	StatusDegraded = "degraded"
)

// Analysis is one scored submission kept in the history.
type Analysis struct {
	ID             string    `json:"id"`
	FileName       string    `json:"fileName"`
	JobDescription string    `json:"jobDescription"`
	Provider       string    `json:"provider"`
	Model          string    `json:"model"`
	Status         string    `json:"status"`
	ArchiveKey     string    `json:"archiveKey,omitempty"`
	Report         Report    `json:"report"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Submission is a job description plus an uploaded resume document.
type Submission struct {
	JobDescription string
	FileName       string
	ContentType    string
	Data           []byte
	// Endpoint and Model override the configured model endpoint for this call only.
	Endpoint string
	Model    string
}
