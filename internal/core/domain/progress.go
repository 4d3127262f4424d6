package domain

// StepState is how a tracking step renders relative to the current status.
type StepState string

const (
	StepCompleted StepState = "completed"
	StepActive    StepState = "active"
	StepFuture    StepState = "future"
)

// TrackingStep is one entry of the order progress bar.
type TrackingStep struct {
	Status      OrderStatus `json:"status"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	State       StepState   `json:"state"`
}

// Progress is the rendered progress bar for an order.
type Progress struct {
	CurrentIndex int            `json:"currentIndex"`
	Cancelled    bool           `json:"cancelled"`
	Steps        []TrackingStep `json:"steps"`
}

var stepCopy = map[OrderStatus][2]string{
	StatusPending:   {"Order Placed", "Your order has been received"},
	StatusConfirmed: {"Order Confirmed", "Restaurant has confirmed your order"},
	StatusPreparing: {"Preparing", "Your food is being prepared"},
	StatusReady:     {"Ready", "Your order is ready for pickup or delivery"},
	StatusCompleted: {"Completed", "Order has been completed"},
}

// ProgressFor maps status onto the five-step progression. Cancelled orders sit
// outside it: no step is highlighted and CurrentIndex is -1.
func ProgressFor(status OrderStatus) Progress {
	current := status.StepIndex()
	p := Progress{
		CurrentIndex: current,
		Cancelled:    status == StatusCancelled,
		Steps:        make([]TrackingStep, len(progression)),
	}
	for i, st := range progression {
		state := StepFuture
		switch {
		case current < 0:
		case i < current:
			state = StepCompleted
		case i == current:
			state = StepActive
		}
		p.Steps[i] = TrackingStep{
			Status:      st,
			Title:       stepCopy[st][0],
			Description: stepCopy[st][1],
			State:       state,
		}
	}
	return p
}
