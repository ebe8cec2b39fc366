package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/qrp.go/pkg/device"
	fx "github.com/robotalks/qrp.go/pkg/framework"
	"github.com/robotalks/qrp.go/pkg/keyer"
	"github.com/robotalks/qrp.go/pkg/link"
	"github.com/robotalks/qrp.go/pkg/modectl"
	paddledev "github.com/robotalks/qrp.go/pkg/paddle/device"
	env "github.com/robotalks/qrp.go/pkg/remote/env/controller"
	"github.com/robotalks/qrp.go/pkg/remote/msgs"
	"github.com/robotalks/qrp.go/pkg/rig"
	"github.com/robotalks/qrp.go/pkg/wsjtx"
)

var tick = 2 * time.Millisecond

func init() {
	env.Default().Info.Meta.Description = "QRP Keyer"
	env.SetupFlags()
	device.SetupFlags()
	paddledev.SetupFlags()
	rig.SetupFlags()
	link.SetupFlags()
	wsjtx.SetupFlags()
	flag.DurationVar(&tick, "tick", tick, "Control loop interval, bounds keying jitter.")
}

func main() {
	flag.Parse()

	store, err := device.NewConfig().NewStore()
	if err != nil {
		log.Fatalln(err)
	}
	st := store.Snapshot()

	conf := env.NewConfig()
	if conf.Info.Meta.Callsign == "" {
		conf.Info.Meta.Callsign = st.Callsign
	}
	e := conf.MustNewEnv()

	timing, err := keyer.NewFarnsworthTiming(st.WPM, st.FarnsworthWPM)
	if err != nil {
		log.Fatalln(err)
	}
	k, err := keyer.New(timing)
	if err != nil {
		log.Fatalln(err)
	}
	k.SetListener(&keyer.Transcriber{OnWord: func(word string) {
		if err := e.Registrar.SendEvent(context.Background(), &msgs.KeyedText{Text: word}); err != nil {
			glog.Warningf("Publish keyed text: %v", err)
		}
	}})

	paddles, err := paddledev.NewConfig().NewPaddles()
	if err != nil {
		log.Fatalln(err)
	}
	r, err := rig.NewConfig().NewRig(e.Registrar)
	if err != nil {
		log.Fatalln(err)
	}

	sender := keyer.NewMessageSender(k, paddles, r.Sink, store)
	var enc modectl.Encoder = &modectl.EventEncoder{Registrar: e.Registrar}
	synth := link.NewConfig().NewRunner()
	if synth != nil {
		enc = modectl.NewSynthEncoder(synth.Client)
	}
	ctl := modectl.NewController(store, modectl.ForDigitalModes(enc)).WithRegistrar(e.Registrar)
	ctl.Keyer, ctl.Sender = k, sender

	loop := fx.NewLoop().WithInterval(tick)
	loop.StopOnError = true
	loop.Add(
		e,
		paddles,
		keyer.NewController(k, paddles, r.Sink).WithSpeed(store),
		sender,
		ctl,
	)
	if l := wsjtx.NewConfig().NewListener(); l != nil {
		loop.Add(l)
	}
	if r.Events != nil {
		loop.Add(r.Events)
	}
	if synth != nil {
		loop.AddRunnable(fx.NamedRun("synth", synth))
	}

	err = fx.NewRunner().HandleSignals().Go(loop).Wait()
	if cerr := r.Close(); cerr != nil {
		glog.Errorf("Release key line: %v", cerr)
	}
	glog.Flush()
	if err != nil {
		log.Fatalln(err)
	}
}
