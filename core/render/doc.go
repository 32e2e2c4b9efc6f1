// Package render turns directory listings into response bodies.
//
// Three renderer variants cover the supported representations: HTML,
// plain text, and JSON. HTML and plain text run through a small token
// template engine; JSON serializes the entries directly. The page
// template is a single adapter type, so a literal template string and a
// render callback are interchangeable downstream.
package render
