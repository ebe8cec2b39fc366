// Package msgs defines the remote-control protocol of a radio.
//
// Every message travels inside a Typed envelope; the type ID tells
// commands from events and replies. Commands flow from clients to the
// radio, replies and events flow back.
package msgs
