package host

// Exception is the output slot every scriptable operation may fill.
// The first raised value wins: later stages of a failing operation must
// not replace an exception that is already pending.
type Exception struct {
	value   Variant
	pending bool
}

// Pending reports whether an exception has been raised
func (e *Exception) Pending() bool { return e != nil && e.pending }

// Raise records msg as a string exception unless one is already pending.
// It reports whether msg was recorded.
func (e *Exception) Raise(msg string) bool {
	return e.RaiseValue(String(msg))
}

// RaiseValue records v unless an exception is already pending
func (e *Exception) RaiseValue(v Variant) bool {
	if e == nil || e.pending {
		return false
	}
	e.value = v
	e.pending = true
	return true
}

// Value returns the raised value, Void if nothing is pending
func (e *Exception) Value() Variant {
	if !e.Pending() {
		return Void()
	}
	return e.value
}

// Message returns the exception rendered as text
func (e *Exception) Message() string {
	if !e.Pending() {
		return ""
	}
	return e.value.String()
}

// Clear resets the slot
func (e *Exception) Clear() {
	e.value = Void()
	e.pending = false
}
