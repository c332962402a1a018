package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-pbr/common"
)

type cameraImpl struct {
	mu *sync.Mutex

	eye    common.Vec3
	target common.Vec3
	up     common.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32
}

// Camera defines the interface for the scene camera.
// The camera holds a look-at pose and perspective settings and produces the combined
// view-projection matrix consumed by the uniform blocks.
type Camera interface {
	// Eye returns the camera's world-space position.
	//
	// Returns:
	//   - common.Vec3: the eye position
	Eye() common.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - common.Vec3: the target position
	Target() common.Vec3

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - common.Vec3: the up vector
	Up() common.Vec3

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// SetEye moves the camera to a new world-space position.
	//
	// Parameters:
	//   - eye: the new eye position
	SetEye(eye common.Vec3)

	// SetTarget sets the look-at point.
	//
	// Parameters:
	//   - target: the new target position
	SetTarget(target common.Vec3)

	// SetAspect sets the aspect ratio (width / height).
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// Resize sets the aspect ratio from a framebuffer size. Zero sizes are ignored.
	//
	// Parameters:
	//   - width, height: framebuffer size in pixels
	Resize(width, height int)

	// BuildViewProjection returns ClipRemap * PerspectiveGL * LookAt as a column-major matrix.
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	BuildViewProjection() [16]float32

	// ViewPosition returns the eye as a homogeneous point (x, y, z, 1).
	//
	// Returns:
	//   - [4]float32: the homogeneous eye position
	ViewPosition() [4]float32
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera at the default pose: eye (0, 0, 5) looking at the origin
// with +Y up, a 45 degree vertical field of view, near 0.1 and far 100.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		eye:    common.Vec3{0, 0, 5},
		target: common.Vec3{0, 0, 0},
		up:     common.Vec3{0, 1, 0},
		fov:    common.DegToRad(45),
		aspect: 1.0,
		near:   0.1,
		far:    100.0,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Eye() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *cameraImpl) Target() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Up() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetEye(eye common.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eye = eye
}

func (c *cameraImpl) SetTarget(target common.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = target
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
}

func (c *cameraImpl) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.SetAspect(float32(width) / float32(height))
}

func (c *cameraImpl) BuildViewProjection() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var view, proj, out [16]float32
	common.LookAt(view[:], c.eye, c.target, c.up)
	common.PerspectiveGL(proj[:], c.fov, c.aspect, c.near, c.far)

	remap := common.ClipRemap()
	common.Mul4(out[:], remap[:], proj[:])
	common.Mul4(out[:], out[:], view[:])
	return out
}

func (c *cameraImpl) ViewPosition() [4]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return [4]float32{c.eye[0], c.eye[1], c.eye[2], 1}
}
