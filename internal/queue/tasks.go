package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// TaskPartnershipRequested emails the counterpart of a new connect request
	TaskPartnershipRequested = "partnership:requested"
)

// PartnershipRequestedPayload is the task body; the worker reloads everything else.
type PartnershipRequestedPayload struct {
	PartnershipID string `json:"partnership_id"`
}

func NewPartnershipRequestedTask(payload PartnershipRequestedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPartnershipRequested, body), nil
}
