package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventFlowStart      EventType = "flow_start"
	EventAnswerAccepted EventType = "answer_accepted"
	EventAnswerRejected EventType = "answer_rejected"
	EventFlowComplete   EventType = "flow_complete"
	EventProcessed      EventType = "processed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp  time.Time `json:"timestamp"`
	Type       EventType `json:"type"`
	CampaignID string    `json:"campaign_id"`
	UserID     string    `json:"user_id"`
}

// AnswerEvent reports the validation outcome of an answer.
type AnswerEvent struct {
	EventBase
	QuestionID string       `json:"question_id"`
	Kind       QuestionKind `json:"kind"`
}

// FlowEvent reports a flow starting or completing.
type FlowEvent struct {
	EventBase
	// QuestionID is the first question on start, the terminating question on completion.
	QuestionID string `json:"question_id,omitempty"`
	Count      int64  `json:"count,omitempty"`
}

// ProcessEvent is emitted once per inbound message.
type ProcessEvent struct {
	EventBase
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnFlowStart      func(context.Context, *FlowEvent)
	OnAnswerAccepted func(context.Context, *AnswerEvent)
	OnAnswerRejected func(context.Context, *AnswerEvent)
	OnFlowComplete   func(context.Context, *FlowEvent)
	OnProcessed      func(context.Context, *ProcessEvent)
}
