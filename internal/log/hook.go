package log

import (
	"context"

	"github.com/sirupsen/logrus"
)

// AsyncHook is a logrus hook that buffers fired entries and writes them out
// from a separate goroutine, started with Listen.
type AsyncHook interface {
	logrus.Hook

	// Listen writes out buffered entries until ctx is cancelled, then drains
	// whatever is still pending and releases the underlying writer.
	Listen(ctx context.Context)
}
