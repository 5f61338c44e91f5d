// Package maps holds the demo map shipped with the viewers.
package maps

import (
	"embed"

	"github.com/milk9111/tiledmap/tmx"
	"github.com/milk9111/tiledmap/xmltree"
)

//go:embed *.tmx *.tsx *.png
var FS embed.FS

// Demo is the name of the demo map within FS.
const Demo = "demo.tmx"

// Loader returns a map loader reading documents from FS.
func Loader() *tmx.Loader {
	return tmx.NewLoader(xmltree.FSProvider{FS: FS})
}
