package services

import (
	"context"
	"log"

	"github.com/techagentng/cleancity/realtime"
)

// LifecycleEngine is the in-process trigger infrastructure: it consumes
// the report change feed and dispatches each event to the matching
// handler. Creation events fire assignment, update events fire
// completion. The handlers carry their own guards, so redundant
// dispatches (assignment's own update event, for instance) are no-ops.
type LifecycleEngine struct {
	hub        *realtime.Hub
	assignment AssignmentService
	completion CompletionService
}

func NewLifecycleEngine(hub *realtime.Hub, assignment AssignmentService, completion CompletionService) *LifecycleEngine {
	return &LifecycleEngine{
		hub:        hub,
		assignment: assignment,
		completion: completion,
	}
}

// Run consumes events until the context is canceled. Handler failures
// are logged, never retried here; re-delivery is the publisher's concern.
func (e *LifecycleEngine) Run(ctx context.Context) {
	sub := e.hub.Subscribe()
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub.C:
			if !ok {
				return
			}
			e.dispatch(event)
		}
	}
}

func (e *LifecycleEngine) dispatch(event realtime.Event) {
	report := event.Payload
	switch {
	case event.Matches(realtime.CreatePattern):
		result := e.assignment.AssignWorker(&report)
		if !result.Success {
			log.Printf("Assignment handler failed for report %s: %s %s", report.ID, result.Message, result.Error)
		}
	case event.Matches(realtime.UpdatePattern):
		result := e.completion.CompleteTask(&report)
		if !result.Success {
			log.Printf("Completion handler failed for report %s: %s %s", report.ID, result.Message, result.Error)
		}
	}
}
