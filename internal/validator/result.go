package validator

// Result is the outcome of validating one document.
// Non-conformance is reported here, never as an error.
type Result struct {
	Valid    bool     `json:"valid"`
	Messages []string `json:"messages"`
}

// NewResult creates a valid result with no messages
func NewResult() *Result {
	return &Result{
		Valid:    true,
		Messages: make([]string, 0),
	}
}

// AddError adds a message and marks the result invalid
func (r *Result) AddError(msg string) {
	r.Messages = append(r.Messages, msg)
	r.Valid = false
}

// AddMessage adds an informational message without affecting validity
func (r *Result) AddMessage(msg string) {
	r.Messages = append(r.Messages, msg)
}

// Merge appends the messages of other after those of r
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Messages = append(r.Messages, other.Messages...)
	r.Valid = r.Valid && other.Valid
}
