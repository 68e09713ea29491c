//go:build linux

package firecracker

import "strings"

// tokens the VM-config template substitutes, per iteration.
type templateValues struct {
	GuestIP           string
	TapIP             string
	TapID             string
	MACAddress        string
	LogLocation       string
}

// renderTemplate performs the five-token substitution the cold-boot variant
// needs; the config template itself is operator-supplied (not embedded),
// since its kernel args, drive layout, and vcpu/mem sizing are deployment
// specific.
func renderTemplate(tpl string, v templateValues) string {
	r := strings.NewReplacer(
		"{{guest_ip}}", v.GuestIP,
		"{{tap_ip}}", v.TapIP,
		"{{tap_id}}", v.TapID,
		"{{mac_address}}", v.MACAddress,
		"{{firecracker_log_location}}", v.LogLocation,
	)
	return r.Replace(tpl)
}
