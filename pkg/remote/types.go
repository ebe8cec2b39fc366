// Package remote defines the remote-control surface of a radio: a
// radio registers itself and publishes events; clients discover
// radios and send commands to them.
package remote

import (
	"context"

	fx "github.com/robotalks/qrp.go/pkg/framework"
)

// Registrar registers a radio with a registry and publishes its events.
type Registrar interface {
	// SendEvent publishes an event to all clients.
	SendEvent(context.Context, fx.Message) error
}

// Command represents a received command to be processed.
type Command interface {
	Msg() fx.Message
	Done(fx.Message) error
}

// CommandMsg wraps a Command as a Message.
type CommandMsg struct {
	Command Command
}

// NewMessage implements Message.
func (m *CommandMsg) NewMessage() fx.Message { return &CommandMsg{} }

// Ref is a reference to a radio.
type Ref struct {
	// Type is the radio type, e.g. qrp.
	Type string
	// ID is unique ID of the device.
	ID string
}

// Name retrieves the name from ref, also the topic prefix.
func (r Ref) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid indicates Ref is valid.
func (r Ref) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// Meta is the retained description of a radio.
type Meta struct {
	Description string            `json:"description,omitempty"`
	Callsign    string            `json:"callsign,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// Info provides information of a radio.
type Info struct {
	Ref  Ref
	Meta Meta
}

// Connector is used by clients to reach radios.
type Connector interface {
	// Discover enumerates registered radios.
	Discover(context.Context) ([]Info, error)
	// Connect connects to the specified radio.
	Connect(context.Context, Ref) (Conn, error)
}

// Conn is a client connection to a radio.
type Conn interface {
	// DoCommand executes a command.
	DoCommand(fx.Message) CommandFuture
}

// Result represents result of a command.
type Result struct {
	Msg fx.Message
	Err error
}

// CommandFuture is the future of sent command.
type CommandFuture interface {
	ResultChan() <-chan Result
}

// Wait blocks for the result of f or until ctx is done.
func Wait(ctx context.Context, f CommandFuture) Result {
	select {
	case res, ok := <-f.ResultChan():
		if !ok {
			return Result{Err: context.Canceled}
		}
		return res
	case <-ctx.Done():
		return Result{Err: ctx.Err()}
	}
}
