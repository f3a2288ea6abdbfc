package realtime

import (
	"github.com/techagentng/cleancity/models"
)

// TaskNotifier is the worker-facing consumer of the report feed. It
// invokes the callback exactly when an update event lands whose payload
// is a report assigned to this worker. The subscription lives until
// Stop; nothing is buffered or replayed across reconnects.
type TaskNotifier struct {
	workerID string
	sub      *Subscription
	callback func(models.WasteReport)
	done     chan struct{}
}

// NewTaskNotifier subscribes to the hub and starts filtering events for
// the given worker.
func NewTaskNotifier(hub *Hub, workerID string, callback func(models.WasteReport)) *TaskNotifier {
	n := &TaskNotifier{
		workerID: workerID,
		sub:      hub.Subscribe(),
		callback: callback,
		done:     make(chan struct{}),
	}
	go n.run()
	return n
}

func (n *TaskNotifier) run() {
	defer close(n.done)
	for event := range n.sub.C {
		if !event.Matches(UpdatePattern) {
			continue
		}
		report := event.Payload
		if report.AssignedWorkerID == n.workerID && report.Status == models.StatusAssigned {
			n.callback(report)
		}
	}
}

// Stop tears the subscription down and waits for the filter loop to
// drain. Safe to call more than once.
func (n *TaskNotifier) Stop() {
	n.sub.Unsubscribe()
	<-n.done
}
