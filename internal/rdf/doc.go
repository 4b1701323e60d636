// Package rdf holds the small RDF term model used to assemble EARL reports and
// the abbreviated RDF/XML writer that persists them.
//
// A Graph is an insertion-ordered set of triples. Duplicate statements are
// dropped on Add, so builders can re-assert a resource (for example a test
// case reached twice) without producing repeated properties in the output.
//
// IRIs are stored as given. Relative IRIs such as "assert-1" are resolved by
// consumers against the xml:base written on the RDF/XML root element.
package rdf
