package system

import (
	"time"

	"github.com/jacogrande/wayfare/internal/component"
	"github.com/jacogrande/wayfare/internal/core/ecs"
	coresys "github.com/jacogrande/wayfare/internal/core/system"
)

// InputSystem samples the input source into the controlled entity's
// InputIntent component. One controlled entity per source.
type InputSystem struct {
	source  InputSource
	intents *ecs.Store[component.InputIntent]
	entity  ecs.EntityID
}

func NewInputSystem(source InputSource, intents *ecs.Store[component.InputIntent], entity ecs.EntityID) *InputSystem {
	return &InputSystem{source: source, intents: intents, entity: entity}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(dt time.Duration) {
	in, ok := s.intents.Get(s.entity)
	if !ok {
		return
	}
	*in = s.source.Poll()
}
