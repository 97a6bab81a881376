package graph

import "fmt"

// Output is one `output` event, retained as an append-only per-session log
// (§3: "Outputs are never mutated or removed individually; only cascaded
// away with their Session").
type Output struct {
	Entity

	Seq      int
	Category string
	Text     string
	Source   *Source
	Line     int
}

func outputURI(sessionID string, seq int) string {
	return fmt.Sprintf("%s/outputs:%d", sessionURI(sessionID), seq)
}

// AppendOutput records one output event for the session.
func (s *Session) AppendOutput(category, text string, src *Source, line int) *Output {
	seq := s.NextOutputSeq()
	o := &Output{
		Entity:   NewEntity(outputURI(s.ID, seq), "output", s.Scope()),
		Seq:      seq,
		Category: category,
		Text:     text,
		Source:   src,
		Line:     line,
	}
	s.Outputs.Add(o.URI(), o)
	return o
}
