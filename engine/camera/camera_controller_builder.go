package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithSpeed sets the distance moved per Update for each active direction.
//
// Parameters:
//   - speed: world units per step
//
// Returns:
//   - CameraControllerOption: functional option to set the speed
func WithSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.speed = speed
	}
}

// WithKeyBinding maps an extra key code to a movement direction in addition to the defaults.
//
// Parameters:
//   - key: the GLFW key code
//   - dir: the direction the key drives
//
// Returns:
//   - CameraControllerOption: functional option to add the binding
func WithKeyBinding(key int, dir Direction) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.bindings[key] = dir
	}
}
