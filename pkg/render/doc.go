// Package render serializes virtual trees to HTML. It provides two
// surfaces: Renderer, a one-shot serializer for static output, and
// Backend, an in-process implementation of vdom.Backend whose live tree
// can be serialized after any number of applied patch scripts. The
// Backend is what tests and server-side sessions use to observe the
// effect of a diff without a browser.
package render
