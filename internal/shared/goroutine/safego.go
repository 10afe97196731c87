// Package goroutine runs fire-and-forget work without letting a panic in
// the background task take the process down.
package goroutine

import (
	"runtime/debug"

	"lucerna/internal/shared/logger"
)

// SafeGo runs fn on its own goroutine. A panic is recovered and logged
// under the given task name together with the stack.
func SafeGo(log logger.Interface, task string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("background task panicked",
					"task", task,
					"panic", r,
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}
