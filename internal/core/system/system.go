package system

import "time"

// Phase defines execution ordering within a single tick. The simulation
// contract is a fixed sequence: read input, advance jump physics, advance
// motion/collision, run tile behaviors, then update render culling.
type Phase int

const (
	PhaseInput    Phase = iota // 0: sample input intent
	PhaseJump                  // 1: jump state machine + vertical physics
	PhaseMotion                // 2: horizontal integration + collision
	PhaseBehavior              // 3: tile enter/leave/stand callbacks
	PhaseOutput                // 4: camera culling + chunk re-render
	PhaseCleanup               // 5: destroy queued entities
)

// System is the interface every simulation system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
