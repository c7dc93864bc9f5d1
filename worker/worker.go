package worker

import (
	"runtime"

	"github.com/getsentry/sentry-go"
)

var queue = make(chan func(), runtime.NumCPU())

func init() {
	for i := 0; i < runtime.NumCPU(); i++ {
		go run()
	}
}

func run() {
	defer sentry.Recover()

	for f := range queue {
		f()
	}
}

// Submit hands f to the shared background workers. Meant for work that must
// stay off the packet dispatch goroutine, like outbound rate reports.
func Submit(f func()) {
	queue <- f
}
