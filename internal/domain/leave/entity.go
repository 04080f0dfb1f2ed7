package leave

// Request is an inbound leave request: a guardian or supervisor asking
// for a student's absence or early departure to be excused. Requests arrive
// through the remote endpoint's sync response and are acknowledged back on
// the next successful push.
type Request struct {
	ID         string `json:"id"`
	StudentID  string `json:"studentId"`
	Reason     string `json:"reason"`
	Day        string `json:"day,omitempty"`
	Supervisor string `json:"supervisor,omitempty"`
}
