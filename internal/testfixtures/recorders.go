package testfixtures

import (
	"sync"

	"github.com/example/property-dashboard/internal/notify"
)

// RecordingNotifier captures notifications for later inspection.
type RecordingNotifier struct {
	mu      sync.Mutex
	entries []notify.Notification
}

// NewRecordingNotifier constructs an empty recorder.
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

// Notify appends the notification to the recorded history.
func (r *RecordingNotifier) Notify(n notify.Notification) {
	r.mu.Lock()
	r.entries = append(r.entries, n)
	r.mu.Unlock()
}

// Notifications returns a copy of the recorded history.
func (r *RecordingNotifier) Notifications() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.entries...)
}

// Last returns the most recent notification, if any.
func (r *RecordingNotifier) Last() (notify.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return notify.Notification{}, false
	}
	return r.entries[len(r.entries)-1], true
}

// CountDestructive returns how many recorded notifications carry the
// destructive flag.
func (r *RecordingNotifier) CountDestructive() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.entries {
		if n.Destructive {
			count++
		}
	}
	return count
}

// Reset clears the recorded history.
func (r *RecordingNotifier) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}

// RecordingNavigator captures navigation targets for later inspection.
type RecordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

// NewRecordingNavigator constructs an empty recorder.
func NewRecordingNavigator() *RecordingNavigator {
	return &RecordingNavigator{}
}

// Navigate records the target path.
func (r *RecordingNavigator) Navigate(path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
}

// Paths returns a copy of the recorded navigation history.
func (r *RecordingNavigator) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}
