package domain

// ScanRequest selects which detector an on-demand monitoring scan runs.
type ScanRequest struct {
	Detector string `json:"detector" validate:"required,min=1,max=64"`
}
