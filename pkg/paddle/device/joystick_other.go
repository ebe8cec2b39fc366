//go:build !linux

package device

import "errors"

func openJoystick(index int) (Joystick, error) {
	return nil, errors.New("joystick paddles are only supported on linux")
}
