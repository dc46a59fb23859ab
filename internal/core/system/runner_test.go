package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubSystem struct {
	phase Phase
	tag   string
	trace *[]string
}

func (s *stubSystem) Phase() Phase            { return s.phase }
func (s *stubSystem) Update(dt time.Duration) { *s.trace = append(*s.trace, s.tag) }

func TestRunnerExecutesInPhaseOrder(t *testing.T) {
	var trace []string
	r := NewRunner()
	r.Register(&stubSystem{phase: PhaseOutput, tag: "output", trace: &trace})
	r.Register(&stubSystem{phase: PhaseInput, tag: "input", trace: &trace})
	r.Register(&stubSystem{phase: PhaseMotion, tag: "motion", trace: &trace})
	r.Register(&stubSystem{phase: PhaseJump, tag: "jump", trace: &trace})

	r.Tick(16 * time.Millisecond)
	assert.Equal(t, []string{"input", "jump", "motion", "output"}, trace)
}

func TestRunnerSamePhaseKeepsRegistrationOrder(t *testing.T) {
	var trace []string
	r := NewRunner()
	r.Register(&stubSystem{phase: PhaseBehavior, tag: "first", trace: &trace})
	r.Register(&stubSystem{phase: PhaseBehavior, tag: "second", trace: &trace})

	r.Tick(16 * time.Millisecond)
	assert.Equal(t, []string{"first", "second"}, trace)
}

func TestRunnerLateRegistrationResorts(t *testing.T) {
	var trace []string
	r := NewRunner()
	r.Register(&stubSystem{phase: PhaseMotion, tag: "motion", trace: &trace})
	r.Tick(16 * time.Millisecond)

	r.Register(&stubSystem{phase: PhaseInput, tag: "input", trace: &trace})
	trace = trace[:0]
	r.Tick(16 * time.Millisecond)
	assert.Equal(t, []string{"input", "motion"}, trace)
}
