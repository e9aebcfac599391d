package simulation

// Observer receives the results of every run that completes on its own.
// Stopped runs are never delivered. OnResults runs on the goroutine that
// ended the run, after the manager is stopped. It may call Start; Step
// fails with core.ErrBusy until every observer has returned.
type Observer interface {
	OnResults(res *Results)
}

type ObserverFunc func(res *Results)

func (f ObserverFunc) OnResults(res *Results) {
	f(res)
}

// ChannelObserver forwards results to a channel without blocking. Results
// are dropped when the channel is full.
type ChannelObserver chan<- *Results

func (c ChannelObserver) OnResults(res *Results) {
	select {
	case c <- res:
	default:
	}
}
