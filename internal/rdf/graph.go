package rdf

import "fmt"

type tripleKey struct {
	s, p, o string
}

func keyOf(t Triple) tripleKey {
	return tripleKey{
		s: fmt.Sprintf("%d|%s", t.S.Kind(), t.S.String()),
		p: t.P.Value,
		o: fmt.Sprintf("%d|%s", t.O.Kind(), t.O.String()),
	}
}

// Graph is an insertion-ordered set of triples plus the namespace prefixes
// used when it is serialized.
//
// Graph is not safe for concurrent use.
type Graph struct {
	triples  []Triple
	seen     map[tripleKey]struct{}
	prefixes map[string]string
	blankSeq int
}

// NewGraph creates an empty graph with the rdf prefix bound.
func NewGraph() *Graph {
	return &Graph{
		seen:     make(map[tripleKey]struct{}),
		prefixes: map[string]string{"rdf": RDFNS},
	}
}

// Add appends a statement. It returns false when the statement was already
// present, in which case the graph is unchanged.
func (g *Graph) Add(s Term, p IRI, o Term) bool {
	t := Triple{S: s, P: p, O: o}
	k := keyOf(t)
	if _, ok := g.seen[k]; ok {
		return false
	}
	g.seen[k] = struct{}{}
	g.triples = append(g.triples, t)
	return true
}

// Has reports whether the statement is present.
func (g *Graph) Has(s Term, p IRI, o Term) bool {
	_, ok := g.seen[keyOf(Triple{S: s, P: p, O: o})]
	return ok
}

// NewBlankNode allocates a blank node with a graph-unique identifier.
func (g *Graph) NewBlankNode() BlankNode {
	id := fmt.Sprintf("b%d", g.blankSeq)
	g.blankSeq++
	return BlankNode{ID: id}
}

// SetPrefix binds a namespace prefix for serialization.
func (g *Graph) SetPrefix(prefix, ns string) {
	g.prefixes[prefix] = ns
}

// Prefixes returns a copy of the prefix bindings.
func (g *Graph) Prefixes() map[string]string {
	return copyPrefixMap(g.prefixes)
}

// Triples returns the statements in insertion order.
// The returned slice must not be modified.
func (g *Graph) Triples() []Triple {
	return g.triples
}

// Len returns the number of statements.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Objects returns the objects of every statement matching subject and
// predicate, in insertion order.
func (g *Graph) Objects(s Term, p IRI) []Term {
	var out []Term
	for _, t := range g.triples {
		if t.P == p && sameTerm(t.S, s) {
			out = append(out, t.O)
		}
	}
	return out
}

// Subjects returns the subjects of every statement with the given predicate
// and object, in insertion order.
func (g *Graph) Subjects(p IRI, o Term) []Term {
	var out []Term
	for _, t := range g.triples {
		if t.P == p && sameTerm(t.O, o) {
			out = append(out, t.S)
		}
	}
	return out
}

func sameTerm(a, b Term) bool {
	return a.Kind() == b.Kind() && a.String() == b.String()
}

func copyPrefixMap(prefixes map[string]string) map[string]string {
	out := make(map[string]string, len(prefixes))
	for key, value := range prefixes {
		out[key] = value
	}
	return out
}
