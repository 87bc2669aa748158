package tint

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Faultbox/tintview/internal/glass"
)

// Query parameter names.
const (
	paramView     = "v"
	paramLighting = "l"
	paramFilm     = "f"
	paramUniform  = "u"
	paramShade    = "s"
	paramWindows  = "w"
)

// Encode renders s as a URL query string, for example
// "v=outside&l=day&f=ceramic&u=0&s=15&w=ws%3A10%2Clf%3A15...".
func Encode(s State) string {
	windows := make([]string, 0, len(glass.Keys))
	for _, k := range glass.Keys {
		v, ok := s.Windows[k]
		if !ok {
			v = s.Shade
		}
		windows = append(windows, fmt.Sprintf("%s:%d", k.Code(), v))
	}
	uniform := "0"
	if s.Uniform {
		uniform = "1"
	}
	pairs := [][2]string{
		{paramView, string(s.View)},
		{paramLighting, string(s.Lighting)},
		{paramFilm, string(s.Film)},
		{paramUniform, uniform},
		{paramShade, strconv.Itoa(s.Shade)},
		{paramWindows, strings.Join(windows, ",")},
	}
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p[0])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[1]))
	}
	return b.String()
}

// Decode applies the parameters found in query on top of base. The query
// may be a bare query, start with '?', or be a full URL. Unknown values and
// malformed window tokens are ignored and shades are clamped.
func Decode(query string, base State) (State, error) {
	if i := strings.IndexByte(query, '?'); i >= 0 {
		query = query[i+1:]
	}
	q, err := url.ParseQuery(query)
	if err != nil {
		return base, fmt.Errorf("decode tint state: %w", err)
	}

	s := base.Clone()
	if v := View(q.Get(paramView)); v.Valid() {
		s.View = v
	}
	if l := Lighting(q.Get(paramLighting)); l.Valid() {
		s.Lighting = l
	}
	if f := Film(q.Get(paramFilm)); f.Valid() {
		s.Film = f
	}
	switch q.Get(paramUniform) {
	case "1":
		s.Uniform = true
	case "0":
		s.Uniform = false
	}
	if v, err := strconv.Atoi(q.Get(paramShade)); err == nil {
		s.Shade = ClampShade(v)
	}
	if w := q.Get(paramWindows); w != "" {
		for _, tok := range strings.Split(w, ",") {
			code, val, ok := strings.Cut(tok, ":")
			if !ok {
				continue
			}
			k, ok := glass.ParseKey(code)
			if !ok {
				continue
			}
			v, err := strconv.Atoi(strings.TrimSpace(val))
			if err != nil {
				continue
			}
			s.Windows[k] = ClampShade(v)
		}
	}
	return s, nil
}
