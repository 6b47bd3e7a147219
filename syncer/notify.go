package syncer

// Notifier receives transient user-visible notifications from the sync
// engine. The presentation layer renders them as toasts; the default
// implementation drops them.
type Notifier interface {
	Success(message string)
	Error(message string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}
