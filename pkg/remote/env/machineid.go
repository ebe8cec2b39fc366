// Package env sets up the remote surface from flags and environment.
package env

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// AppID scopes the machine ID so it is not the raw system identifier.
const AppID = "qrp.go"

// MachineID retrieves the ID identifying this machine, empty if unavailable.
func MachineID() string {
	id, err := machineid.ProtectedID(AppID)
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		return ""
	}
	if len(id) > 16 {
		id = id[:16]
	}
	return id
}
