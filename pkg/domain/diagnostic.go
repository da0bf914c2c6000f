package domain

import (
	"fmt"
	"strings"
)

// FailureKind tags why a Receiver (or one of its slots) could not be resolved.
type FailureKind string

const (
	// FailureNoSender means the requested name is not declared by any active Sender,
	// or the Sender offers fewer slots than requested.
	FailureNoSender FailureKind = "no_sender"
	// FailureAmbiguousSenders means two or more active Senders declare the name.
	FailureAmbiguousSenders FailureKind = "ambiguous_senders"
	// FailurePlaceholderName means the Receiver has no portal selected yet.
	FailurePlaceholderName FailureKind = "placeholder_name"
)

// Level is the severity of a diagnostic.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Level returns the severity attached to a failure kind.
// Placeholder names are an expected editing state, everything else is a warning.
func (k FailureKind) Level() Level {
	if k == FailurePlaceholderName {
		return LevelInfo
	}
	return LevelWarning
}

// WholeNode is the Slot value of a diagnostic that concerns the entire Receiver.
const WholeNode = -1

// Diagnostic reports one resolution failure.
type Diagnostic struct {
	ReceiverID string      `json:"receiver_id" yaml:"receiver_id"`
	PortalName string      `json:"portal_name" yaml:"portal_name"`
	Kind       FailureKind `json:"kind" yaml:"kind"`
	Level      Level       `json:"level" yaml:"level"`

	// Slot is the receiver slot index for per-slot failures, WholeNode otherwise.
	Slot int `json:"slot" yaml:"slot"`

	// Senders lists every conflicting Sender for AmbiguousSenders.
	Senders []string `json:"senders,omitempty" yaml:"senders,omitempty"`

	// SenderID is the matched Sender for per-slot NoSender failures.
	SenderID string `json:"sender_id,omitempty" yaml:"sender_id,omitempty"`
}

// Message renders a human-readable description of the diagnostic.
func (d Diagnostic) Message() string {
	switch d.Kind {
	case FailurePlaceholderName:
		return fmt.Sprintf("receiver %s has no portal selected", d.ReceiverID)
	case FailureAmbiguousSenders:
		return fmt.Sprintf("receiver %s: portal %q is declared by %d senders (%s)",
			d.ReceiverID, d.PortalName, len(d.Senders), strings.Join(d.Senders, ", "))
	case FailureNoSender:
		if d.Slot != WholeNode {
			return fmt.Sprintf("receiver %s slot %d: sender %s of portal %q has no slot %d",
				d.ReceiverID, d.Slot, d.SenderID, d.PortalName, d.Slot)
		}
		return fmt.Sprintf("receiver %s: no active sender for portal %q", d.ReceiverID, d.PortalName)
	}
	return fmt.Sprintf("receiver %s: %s", d.ReceiverID, d.Kind)
}

// Blocking reports whether the diagnostic describes an invalid or dangling configuration.
func (d Diagnostic) Blocking() bool {
	return d.Level == LevelWarning
}
