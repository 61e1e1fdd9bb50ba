package main

import (
	"context"
	"time"

	"github.com/GriffinCanCode/WebPane/session"
)

// sessionLoop serializes all controller access onto one goroutine. The
// controller is single-threaded by contract; HTTP handlers run on whatever
// goroutine the server picks, so every touch goes through do. The loop also
// owns the tick cadence, so frames keep refreshing with no requests at all.
type sessionLoop struct {
	ops  chan func(*session.Controller)
	quit chan struct{}
	done chan struct{}
}

// startSessionLoop takes ownership of the controller and starts ticking it
// every interval.
func startSessionLoop(ctrl *session.Controller, interval time.Duration) *sessionLoop {
	l := &sessionLoop{
		ops:  make(chan func(*session.Controller)),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go l.run(ctrl, interval)
	return l
}

func (l *sessionLoop) run(ctrl *session.Controller, interval time.Duration) {
	defer close(l.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case op := <-l.ops:
			op(ctrl)
		case <-ticker.C:
			_ = ctrl.Dispatch(context.Background(), session.Tick{})
		case <-l.quit:
			return
		}
	}
}

// do runs fn on the loop goroutine and waits for it to finish. Results
// travel back through variables the closure captures. After stop, fn no
// longer runs and do returns immediately.
func (l *sessionLoop) do(fn func(*session.Controller)) {
	ran := make(chan struct{})
	select {
	case l.ops <- func(c *session.Controller) {
		fn(c)
		close(ran)
	}:
		<-ran
	case <-l.quit:
	}
}

// stop shuts the loop down and waits for the goroutine to exit.
func (l *sessionLoop) stop() {
	close(l.quit)
	<-l.done
}
