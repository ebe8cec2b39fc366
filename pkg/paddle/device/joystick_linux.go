//go:build linux

package device

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

type jsDevice struct {
	file  *os.File
	index int
	name  string
}

func openJoystick(index int) (Joystick, error) {
	if index < 0 {
		return detectJoystick(0)
	}
	f, err := os.OpenFile(fmt.Sprintf("/dev/input/js%d", index), os.O_RDONLY, 0666)
	if err != nil {
		return nil, err
	}
	d := &jsDevice{file: f, index: index}
	var buf [256]byte
	if errno := d.ioctl(iocGNAME, unsafe.Pointer(&buf)); errno != 0 {
		d.file.Close()
		return nil, errno
	}
	if pos := bytes.IndexByte(buf[:], 0); pos >= 0 {
		d.name = string(buf[:pos])
	} else {
		d.name = string(buf[:])
	}
	return d, nil
}

func detectJoystick(startIndex int) (Joystick, error) {
	for index := startIndex; index < 256; index++ {
		d, err := openJoystick(index)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		return d, nil
	}
	return nil, fmt.Errorf("no joystick detected")
}

func (d *jsDevice) Close() error {
	return d.file.Close()
}

func (d *jsDevice) Index() int {
	return d.index
}

func (d *jsDevice) Name() string {
	return d.name
}

// js_event from linux/joystick.h
type jsEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

func (d *jsDevice) ReadButton() (ButtonEvent, error) {
	var raw [8]byte
	for {
		if _, err := d.file.Read(raw[:]); err != nil {
			return ButtonEvent{}, err
		}
		var ev jsEvent
		if err := binary.Read(bytes.NewReader(raw[:]), binary.LittleEndian, &ev); err != nil {
			return ButtonEvent{}, err
		}
		if ev.Type&evBTN == 0 {
			continue
		}
		return ButtonEvent{
			Index:   int(ev.Number),
			Pressed: ev.Value != 0,
			Init:    ev.Type&evINIT != 0,
		}, nil
	}
}

const (
	iocGNAME uint = 0x80ff6a13

	evINIT uint8 = 0x80
	evBTN  uint8 = 0x01
)

func (d *jsDevice) ioctl(req uint, ptr unsafe.Pointer) syscall.Errno {
	_, _, err := syscall.Syscall(syscall.SYS_IOCTL, uintptr(d.file.Fd()), uintptr(req), uintptr(ptr))
	return err
}
