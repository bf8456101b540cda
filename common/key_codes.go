package common

// Virtual key codes delivered to window key callbacks.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace = 32  // Spacebar (ASCII)
	KeyR     = 82  // R key (ASCII)
	KeyEnter = 257 // Enter key (GLFW)
)
