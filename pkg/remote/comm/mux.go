package comm

import (
	"context"
	"fmt"

	fx "github.com/robotalks/qrp.go/pkg/framework"
	"github.com/robotalks/qrp.go/pkg/remote"
	"github.com/robotalks/qrp.go/pkg/remote/msgs"
)

// RegistrarMux publishes a radio through every configured transport.
// A transport failing to publish doesn't stop the others.
type RegistrarMux struct {
	Registrars []remote.Registrar
}

// Add adds transports.
func (r *RegistrarMux) Add(regs ...remote.Registrar) {
	r.Registrars = append(r.Registrars, regs...)
}

// SendEvent implements remote.Registrar.
func (r *RegistrarMux) SendEvent(ctx context.Context, msg fx.Message) error {
	var errs fx.AggregatedError
	for _, reg := range r.Registrars {
		errs.Add(reg.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}

// AddToLoop implements LoopAdder.
func (r *RegistrarMux) AddToLoop(l *fx.Loop) {
	for _, reg := range r.Registrars {
		if adder, ok := reg.(fx.LoopAdder); ok {
			l.Add(adder)
		}
	}
}

// UnsupportedCommands runs last and rejects every command no
// controller took in this iteration, naming the command.
type UnsupportedCommands struct {
}

// Control implements Controller.
func (c *UnsupportedCommands) Control(cc fx.ControlContext) error {
	var errs fx.AggregatedError
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		cmdMsg, ok := mctx.CurrentMessage().(*remote.CommandMsg)
		if !ok {
			return
		}
		mctx.MessageTaken()
		err := fmt.Errorf("%w: %T", msgs.ErrUnsupportedCommand, cmdMsg.Command.Msg())
		errs.Add(cmdMsg.Command.Done(msgs.NewCommandErr(err)))
	}))
	return errs.Aggregate()
}

// AddToLoop implements LoopAdder.
func (c *UnsupportedCommands) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvIdle, c)
}
