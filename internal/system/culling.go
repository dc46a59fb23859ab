package system

import (
	"time"

	coresys "github.com/jacogrande/wayfare/internal/core/system"
	"github.com/jacogrande/wayfare/internal/render"
)

// CullingSystem feeds the camera's view rectangle to the render index once
// per tick. Runs last in the frame so chunks reflect this tick's edits.
type CullingSystem struct {
	index  *render.Index
	camera CameraSource
}

func NewCullingSystem(index *render.Index, camera CameraSource) *CullingSystem {
	return &CullingSystem{index: index, camera: camera}
}

func (s *CullingSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *CullingSystem) Update(dt time.Duration) {
	s.index.UpdateCulling(s.camera.ViewRect())
}
