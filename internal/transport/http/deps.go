package http

import (
	"github.com/training-mne-api/internal/application/alert"
	"github.com/training-mne-api/internal/application/monitor"
	"github.com/training-mne-api/internal/application/notification"
	"github.com/training-mne-api/internal/application/scheduler"
	jwtinfra "github.com/training-mne-api/internal/infrastructure/jwt"
)

// Deps holds the application services the router exposes. main wires the
// infrastructure and builds the services once; the scheduler and the HTTP
// surface share the same alert service so the dedup path is identical for
// scheduled and on-demand scans.
type Deps struct {
	AlertService        alert.Service
	NotificationService notification.Service
	JWTProvider         *jwtinfra.Provider

	// Scanner runs on-demand detector passes for the admin endpoint; the
	// same instance runs the periodic schedule.
	Scanner   *scheduler.Scheduler
	Detectors []monitor.Detector
}
