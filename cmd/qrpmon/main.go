package main

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/robotalks/qrp.go/pkg/remote/comm/mqtt"
	"github.com/robotalks/qrp.go/pkg/remote/msgs"
)

var (
	mqttURL = "mqtt://localhost:1883/qrp/"
	radio   = ""
)

func init() {
	if val := os.Getenv("QRP_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&radio, "radio", radio, "Only watch this radio, e.g. qrp/0123abcd.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}

	filter := "#"
	if radio != "" {
		filter = strings.TrimSuffix(radio, "/") + "/#"
	}
	q.Sub(filter, mqtt.Handler(func(topic string, payload []byte) {
		log.Println(describePacket(topic, payload))
	}))
	if token := q.Connect(); !token.WaitTimeout(10*time.Second) || token.Error() != nil {
		log.Fatalf("connect %s: %v", mqttURL, token.Error())
	}
	<-(chan struct{})(nil)
}

// describePacket renders one packet seen on the broker as a line
// prefixed by the radio name.
func describePacket(topic string, payload []byte) string {
	items := strings.Split(topic, "/")
	if len(items) != 3 {
		return topic + ": " + string(payload)
	}
	name := items[0] + "/" + items[1]
	switch items[2] {
	case "meta":
		info, ok := mqtt.ParseMeta(topic, payload)
		if !ok {
			return name + " offline"
		}
		line := name + " online"
		if info.Meta.Callsign != "" {
			line += " as " + info.Meta.Callsign
		}
		if info.Meta.Description != "" {
			line += " (" + info.Meta.Description + ")"
		}
		return line
	case "cmd", "msg":
	default:
		return topic + ": " + string(payload)
	}
	typed, err := msgs.DecodeTyped(payload)
	if err != nil {
		return name + " bad packet: " + err.Error()
	}
	msg, err := typed.Decode()
	if err != nil {
		return name + " " + err.Error()
	}
	return name + " " + describe(typed, msg)
}
