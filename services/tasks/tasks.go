// Package tasks defines the asynq task types exchanged between the API
// process and the background worker.
package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// TypeLifecycleSweep migrates elapsed appointments on every doctor and
	// patient document. Enqueued periodically by the worker's scheduler.
	TypeLifecycleSweep = "lifecycle:sweep"
	// TypeRebookingEmail delivers the rebooking notice after a reschedule.
	TypeRebookingEmail = "email:rebooking"
)

// RebookingEmailPayload is the body of a TypeRebookingEmail task.
type RebookingEmailPayload struct {
	To          string `json:"to"`
	PatientName string `json:"patientName"`
	DoctorName  string `json:"doctorName"`
	Link        string `json:"link"`
}

// NewLifecycleSweepTask builds the periodic sweep task. It carries no
// payload; the handler walks every document.
func NewLifecycleSweepTask() *asynq.Task {
	return asynq.NewTask(TypeLifecycleSweep, nil)
}

// NewRebookingEmailTask builds a rebooking email task.
func NewRebookingEmailTask(p RebookingEmailPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rebooking payload: %w", err)
	}
	return asynq.NewTask(TypeRebookingEmail, payload, asynq.MaxRetry(5)), nil
}
