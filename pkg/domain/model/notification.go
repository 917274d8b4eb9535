package model

import "github.com/m-mizutani/goerr/v2"

// Severity of a user-facing notification
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a message shown to the console user
type Notification struct {
	Severity Severity
	Message  string
}

// Success creates a success notification
func Success(msg string) Notification {
	return Notification{Severity: SeveritySuccess, Message: msg}
}

// Info creates an informational notification
func Info(msg string) Notification {
	return Notification{Severity: SeverityInfo, Message: msg}
}

// Warning creates a warning notification
func Warning(msg string) Notification {
	return Notification{Severity: SeverityWarning, Message: msg}
}

// Failure creates an error notification
func Failure(msg string) Notification {
	return Notification{Severity: SeverityError, Message: msg}
}

// Rank orders severities from info (lowest) to error
func (s Severity) Rank() int {
	switch s {
	case SeveritySuccess:
		return 1
	case SeverityWarning:
		return 2
	case SeverityError:
		return 3
	default:
		return 0
	}
}

// ParseSeverity parses a severity name
func ParseSeverity(s string) (Severity, error) {
	switch v := Severity(s); v {
	case SeveritySuccess, SeverityInfo, SeverityWarning, SeverityError:
		return v, nil
	}
	return "", goerr.New("unknown severity", goerr.V("severity", s))
}
