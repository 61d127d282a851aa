package security

import "go.uber.org/zap/zapcore"

// Severity is derived from the event type, never from the caller.
type Severity string

const (
	SeverityINFO     Severity = "INFO"
	SeverityMEDIUM   Severity = "MEDIUM"
	SeverityWARN     Severity = "WARN"
	SeverityHIGH     Severity = "HIGH"
	SeverityCRITICAL Severity = "CRITICAL"
)

var EventSeverityMap = map[EventType]Severity{
	EventLoginSuccess:  SeverityINFO,
	EventSignup:        SeverityINFO,
	EventProvisioned:   SeverityINFO,
	EventOrphanDeleted: SeverityINFO,

	EventPasswordReset:   SeverityMEDIUM,
	EventAccountNotFound: SeverityMEDIUM,

	EventLoginFailed:        SeverityWARN,
	EventRoleMismatch:       SeverityWARN,
	EventRateLimitTriggered: SeverityWARN,
	EventUploadRejected:     SeverityWARN,

	EventLoginBlocked:       SeverityHIGH,
	EventUnauthorizedAccess: SeverityHIGH,
	EventCSRFViolation:      SeverityHIGH,

	EventProvisioningFailed: SeverityCRITICAL,
}

// GetSeverity defaults to MEDIUM for unmapped events.
func GetSeverity(eventType EventType) Severity {
	if severity, ok := EventSeverityMap[eventType]; ok {
		return severity
	}
	return SeverityMEDIUM
}

func IsHighOrAbove(eventType EventType) bool {
	severity := GetSeverity(eventType)
	return severity == SeverityHIGH || severity == SeverityCRITICAL
}

// levelFor maps severity onto zap levels so HIGH and CRITICAL events page through
// the normal error alerting.
func levelFor(eventType EventType) zapcore.Level {
	switch GetSeverity(eventType) {
	case SeverityINFO, SeverityMEDIUM:
		return zapcore.InfoLevel
	case SeverityCRITICAL:
		return zapcore.ErrorLevel
	}
	return zapcore.WarnLevel
}
