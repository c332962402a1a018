package camera

// CameraController defines the keyboard fly controller.
// Key events toggle six movement flags; Update applies every active flag to a Camera once.
// The look-at target is never moved, so strafing orbits the eye around it.
type CameraController interface {
	// ProcessKey records a key press or release.
	//
	// Parameters:
	//   - key: the GLFW key code
	//   - pressed: true on press or repeat, false on release
	//
	// Returns:
	//   - bool: true if the key is a movement key and was consumed
	ProcessKey(key int, pressed bool) bool

	// Update moves the camera eye by one speed step for each active flag.
	//
	// Parameters:
	//   - cam: the camera to move
	Update(cam Camera)

	// Speed returns the distance moved per Update per active flag.
	//
	// Returns:
	//   - float32: world units per step
	Speed() float32

	// SetSpeed changes the per-step distance.
	//
	// Parameters:
	//   - speed: world units per step
	SetSpeed(speed float32)

	// Active reports whether any movement flag is currently set.
	Active() bool
}
