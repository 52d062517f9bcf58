// Package templ renders fixed-layout status panels from a text template.
//
// A template is plain text drawn with box characters plus a few directives:
//
//	$name       value of a metadata field or alias
//	$>          fill marker; the following rune is the fill glyph
//	$[tag]      switch the color for the rest of the line ($[] resets)
//	$^          mark the line as growable for RenderHeight
//	$$          a literal '$'
//	@name=value define an alias; ":color" after the value adds a color
//
// The rune right after $> always becomes the fill glyph, even a closing
// border: "┃ $count$>┃" pads with ┃. Put a space or an explicit glyph after
// the marker ("$> ┃", "$>━┃") to keep the border.
//
// Parsing happens once. Rendering is a pure function of the template, the
// alias registry, the per-call Metadata, the target width and the color
// flag, and returns strings for the caller to write.
package templ
