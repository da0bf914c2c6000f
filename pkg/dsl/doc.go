/*
Package dsl provides a fluent builder for constructing portal graphs in Go code.

It is mostly used by tests and by hosts that generate graphs programmatically
instead of loading them from files.

Example usage:

	b := dsl.New("upscale")

	b.Node("1").Output("IMAGE", "IMAGE")
	b.Sender("2", "img").Input("value", domain.TypeAny)
	b.Receiver("3", "img").Output("value", "IMAGE")
	b.Node("4").Input("images", "IMAGE")

	b.Link("1", 0, "2", 0)
	b.Link("3", 0, "4", 0)

	g, err := b.Build() // validated with schema.ValidateGraph
*/
package dsl
