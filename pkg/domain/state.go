package domain

// State is the per-request snapshot of a conversation execution.
//
// A State is owned by exactly one execution. The routing flags use pointers
// so that "not yet decided" is distinguishable from an explicit false: a
// decision node that has not run leaves its flag nil.
type State struct {
	// Prompt is the caller's query. Immutable once the execution starts.
	Prompt string

	// Answer is empty until a terminal node writes it.
	Answer string

	// HasContext is set by the context check. Nil until that node runs.
	HasContext *bool

	// HasDocuments is set by the retrieval check. Nil until that node runs.
	HasDocuments *bool
}

// NewState creates a fresh state for a single execution.
func NewState(prompt string) State {
	return State{Prompt: prompt}
}

// Clone returns a copy of the state safe to hand to a node handler.
// The flag pointers are duplicated so handlers cannot mutate the
// scheduler's copy through them.
func (s State) Clone() State {
	next := s
	if s.HasContext != nil {
		v := *s.HasContext
		next.HasContext = &v
	}
	if s.HasDocuments != nil {
		v := *s.HasDocuments
		next.HasDocuments = &v
	}
	return next
}

// Update is the partial state delta returned by a node handler.
// Nil fields are untouched; non-nil fields are written exactly once per
// execution path (the scheduler rejects a second write to the same field).
type Update struct {
	Answer       *string
	HasContext   *bool
	HasDocuments *bool
}

// Fields returns the names of the fields this update writes.
func (u Update) Fields() []string {
	var fields []string
	if u.Answer != nil {
		fields = append(fields, "answer")
	}
	if u.HasContext != nil {
		fields = append(fields, "has_context")
	}
	if u.HasDocuments != nil {
		fields = append(fields, "has_documents")
	}
	return fields
}

// Apply writes the update's fields into the state.
func (u Update) Apply(s *State) {
	if u.Answer != nil {
		s.Answer = *u.Answer
	}
	if u.HasContext != nil {
		v := *u.HasContext
		s.HasContext = &v
	}
	if u.HasDocuments != nil {
		v := *u.HasDocuments
		s.HasDocuments = &v
	}
}

// Bool is a convenience for building flag updates.
func Bool(v bool) *bool { return &v }

// Text is a convenience for building answer updates.
func Text(v string) *string { return &v }
