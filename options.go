package motion

// QueueOption configures a RenderQueue during creation.
//
// Example:
//
//	// Default queue
//	q := motion.NewRenderQueue(conn)
//
//	// Labeled queue with leak diagnostics
//	q := motion.NewRenderQueue(conn,
//	    motion.WithLabel("main-scene"),
//	    motion.WithLeakCheck())
type QueueOption func(*queueOptions)

// queueOptions holds optional configuration for queue creation.
type queueOptions struct {
	label     string
	leakCheck bool
}

// defaultQueueOptions returns the default queue options.
func defaultQueueOptions() queueOptions {
	return queueOptions{
		label: "queue",
	}
}

// WithLabel sets the queue label used in diagnostics, log output, and
// emitted events.
func WithLabel(label string) QueueOption {
	return func(o *queueOptions) {
		if label != "" {
			o.label = label
		}
	}
}

// WithLeakCheck enables a garbage-collection hook that logs a warning if
// the queue becomes unreachable before its final release. The hook only
// warns; it never performs teardown, so a leaked queue still counts as a
// caller bug to fix.
func WithLeakCheck() QueueOption {
	return func(o *queueOptions) {
		o.leakCheck = true
	}
}
