// Package glass identifies window panes on a vehicle model: it detects
// glass meshes, synthesizes proxy panes when too few are found, and assigns
// each pane one of six canonical window roles.
package glass

import "strings"

// Key is a canonical window role.
type Key string

// Canonical window roles.
const (
	Windshield Key = "windshield"
	LeftFront  Key = "lf"
	RightFront Key = "rf"
	LeftRear   Key = "lr"
	RightRear  Key = "rr"
	Rear       Key = "rear"
)

// Keys lists every role in slot order. Unassigned candidates fill the first
// empty slot in this order.
var Keys = [6]Key{Windshield, LeftFront, RightFront, LeftRear, RightRear, Rear}

var keyCodes = map[Key]string{
	Windshield: "ws",
	LeftFront:  "lf",
	RightFront: "rf",
	LeftRear:   "lr",
	RightRear:  "rr",
	Rear:       "re",
}

// Valid reports whether k is one of the six canonical roles.
func (k Key) Valid() bool {
	_, ok := keyCodes[k]
	return ok
}

// Code returns the two-letter code used in encoded view state.
func (k Key) Code() string {
	return keyCodes[k]
}

// Index returns the slot index of k, or -1 when k is not canonical.
func (k Key) Index() int {
	for i, kk := range Keys {
		if kk == k {
			return i
		}
	}
	return -1
}

func (k Key) String() string {
	return string(k)
}

// Label returns the upper-case display label.
func (k Key) Label() string {
	return strings.ToUpper(string(k))
}

// ParseKey accepts a canonical name or a two-letter code.
func ParseKey(s string) (Key, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if k := Key(s); k.Valid() {
		return k, true
	}
	for k, code := range keyCodes {
		if code == s {
			return k, true
		}
	}
	return "", false
}
