package main

import (
	"fmt"
	"strings"
)

// onOffAuto is the value of --color and --ui.
type onOffAuto int8

const (
	switchAuto onOffAuto = iota
	switchOn
	switchOff
)

func parseOnOffAuto(flag, value string) (onOffAuto, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return switchAuto, nil
	case "on":
		return switchOn, nil
	case "off":
		return switchOff, nil
	}
	return switchAuto, fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// enabled resolves auto with detect.
func (s onOffAuto) enabled(detect func() bool) bool {
	switch s {
	case switchOn:
		return true
	case switchOff:
		return false
	}
	return detect()
}
