// Package ghostline draws inline ghost-text predictions after the text of a
// field and lets the user accept them with a key.
//
// The state machine and overlay live in package predict and run against any
// Host. Package termfield is a Bubble Tea host, package browser a go-rod
// one, and package predictors holds ready-made prediction callbacks.
package ghostline

import (
	_ "embed"
	"runtime/debug"
	"strings"
)

const modulePath = "github.com/iw2rmb/ghostline"

// release is the version this tree will be tagged as.
//
//go:embed VERSION
var release string

// Version reports the ghostline version in use, without a leading v. A
// binary that pulls ghostline in as a tagged or pseudo-versioned module
// reports that version; a build from a checkout falls back to VERSION.
func Version() string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		if v := moduleVersion(bi); v != "" {
			return v
		}
	}
	return strings.TrimSpace(release)
}

// UserAgent identifies ghostline to prediction backends.
func UserAgent() string {
	return "ghostline/" + Version()
}

func moduleVersion(bi *debug.BuildInfo) string {
	mods := append([]*debug.Module{&bi.Main}, bi.Deps...)
	for _, m := range mods {
		if m == nil || m.Path != modulePath {
			continue
		}
		if m.Replace != nil {
			m = m.Replace
		}
		// "(devel)" and local replacements carry no usable version.
		if v, ok := strings.CutPrefix(m.Version, "v"); ok {
			return v
		}
		return ""
	}
	return ""
}
