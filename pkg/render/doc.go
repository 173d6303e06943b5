// Package render turns requirement trees into text, DOT and SVG.
//
// Both tree flavors render the same way; [Options.Deficit] only changes the
// styling so that missing items stand out:
//
//	tree, _ := craft.NewExpander(table).Expand("Lantern", 2)
//	fmt.Print(render.Text(tree, render.Options{}))
//
//	dot := render.ToDOT(res.Tree, render.Options{Deficit: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// SVG output uses the Graphviz library compiled to WebAssembly, so no
// external binary is needed.
package render

// Options configures tree rendering.
type Options struct {
	// Deficit marks the tree as a deficit tree: zero amounts are shown as
	// satisfied and non-zero amounts as missing.
	Deficit bool

	// Title is placed above the tree in DOT output. Empty means none.
	Title string
}

// Format names an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatDOT, FormatSVG}
