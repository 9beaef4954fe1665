package runner

import "context"

// Output replays the retained stdout and stderr of the child and follows new output.
// Both channels close when the child exits and its output is drained, or when ctx ends.
func (h *Handle) Output(ctx context.Context) (<-chan []byte, <-chan []byte) {
	logger.Debug("subscribing to output", "id", h.id)
	return h.stdout.Subscribe(ctx, 5), h.stderr.Subscribe(ctx, 5)
}
