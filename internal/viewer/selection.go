package viewer

import (
	"strings"

	"github.com/Faultbox/tintview/internal/glass"
)

// Selection is an ordered set of window roles.
type Selection struct {
	keys []glass.Key
}

// Click applies a pointer click. A miss without shift clears the selection.
// With shift a hit toggles its key, otherwise the hit key replaces the
// selection.
func (s *Selection) Click(k glass.Key, hit, shift bool) {
	if !hit {
		if !shift {
			s.Clear()
		}
		return
	}
	if shift {
		if s.Contains(k) {
			s.Remove(k)
		} else {
			s.Add(k)
		}
		return
	}
	if len(s.keys) == 1 && s.keys[0] == k {
		return
	}
	s.Clear()
	s.Add(k)
}

// Add selects k if it is not selected yet.
func (s *Selection) Add(k glass.Key) {
	if !k.Valid() || s.Contains(k) {
		return
	}
	s.keys = append(s.keys, k)
}

// Remove deselects k.
func (s *Selection) Remove(k glass.Key) {
	for i, kk := range s.keys {
		if kk == k {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			return
		}
	}
}

// Contains reports whether k is selected.
func (s *Selection) Contains(k glass.Key) bool {
	for _, kk := range s.keys {
		if kk == k {
			return true
		}
	}
	return false
}

// Clear deselects everything.
func (s *Selection) Clear() {
	s.keys = s.keys[:0]
}

// Retain drops every key for which keep returns false.
func (s *Selection) Retain(keep func(glass.Key) bool) {
	out := s.keys[:0]
	for _, k := range s.keys {
		if keep(k) {
			out = append(out, k)
		}
	}
	s.keys = out
}

// Keys returns the selected keys in selection order.
func (s *Selection) Keys() []glass.Key {
	return append([]glass.Key(nil), s.keys...)
}

// Len returns the number of selected keys.
func (s *Selection) Len() int {
	return len(s.keys)
}

// Label renders the selection for display, e.g. "Selected: LF, RF".
func (s *Selection) Label() string {
	if len(s.keys) == 0 {
		return "Selected: -"
	}
	names := make([]string, len(s.keys))
	for i, k := range s.keys {
		names[i] = k.Label()
	}
	return "Selected: " + strings.Join(names, ", ")
}
