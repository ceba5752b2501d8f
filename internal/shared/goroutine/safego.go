// Package goroutine launches goroutines that log instead of crashing on panic.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/ezpsa-inc/ezpsa/internal/shared/logger"
)

// SafeGo runs fn in a goroutine and delivers its result on the returned
// channel, which is buffered and closed afterwards. A panic in fn is logged
// with its stack under name and delivered as an error.
func SafeGo(log logger.Interface, name string, fn func() error) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
				done <- fmt.Errorf("goroutine %s panicked: %v", name, r)
			}
		}()
		if err := fn(); err != nil {
			done <- err
		}
	}()
	return done
}
