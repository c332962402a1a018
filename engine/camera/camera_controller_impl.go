package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-pbr/common"
)

// Direction identifies one of the six movement flags of the fly controller.
type Direction int

const (
	DirectionForward Direction = iota
	DirectionBackward
	DirectionLeft
	DirectionRight
	DirectionUp
	DirectionDown
	directionCount
)

// defaultBindings maps W/S/A/D, the arrow keys, Q and E onto movement directions.
func defaultBindings() map[int]Direction {
	return map[int]Direction{
		common.KeyW:     DirectionForward,
		common.KeyUp:    DirectionForward,
		common.KeyS:     DirectionBackward,
		common.KeyDown:  DirectionBackward,
		common.KeyA:     DirectionLeft,
		common.KeyLeft:  DirectionLeft,
		common.KeyD:     DirectionRight,
		common.KeyRight: DirectionRight,
		common.KeyQ:     DirectionUp,
		common.KeyE:     DirectionDown,
	}
}

type cameraControllerImpl struct {
	mu *sync.Mutex

	speed    float32
	pressed  [directionCount]bool
	bindings map[int]Direction
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a fly controller with a speed of 0.2 units per step.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:       &sync.Mutex{},
		speed:    0.2,
		bindings: defaultBindings(),
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) ProcessKey(key int, pressed bool) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	dir, ok := cc.bindings[key]
	if !ok {
		return false
	}
	cc.pressed[dir] = pressed
	return true
}

func (cc *cameraControllerImpl) Update(cam Camera) {
	cc.mu.Lock()
	pressed := cc.pressed
	speed := cc.speed
	cc.mu.Unlock()

	eye := cam.Eye()
	up := cam.Up()
	forward := cam.Target().Sub(eye).Normalize()
	right := forward.Cross(up)

	if pressed[DirectionForward] {
		eye = eye.Add(forward.Scale(speed))
	}
	if pressed[DirectionBackward] {
		eye = eye.Sub(forward.Scale(speed))
	}
	if pressed[DirectionRight] {
		eye = eye.Add(right.Scale(speed))
	}
	if pressed[DirectionLeft] {
		eye = eye.Sub(right.Scale(speed))
	}
	if pressed[DirectionUp] {
		eye = eye.Add(up.Scale(speed))
	}
	if pressed[DirectionDown] {
		eye = eye.Sub(up.Scale(speed))
	}
	cam.SetEye(eye)
}

func (cc *cameraControllerImpl) Speed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.speed
}

func (cc *cameraControllerImpl) SetSpeed(speed float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.speed = speed
}

func (cc *cameraControllerImpl) Active() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	for _, p := range cc.pressed {
		if p {
			return true
		}
	}
	return false
}
