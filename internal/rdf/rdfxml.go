package rdf

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// RDFXMLOptions configures RDF/XML output.
type RDFXMLOptions struct {
	// BaseIRI is written as xml:base on the root element when non-empty.
	BaseIRI string
	// Indent is the per-level indentation; two spaces when empty.
	Indent string
}

type rdfxmlWriter struct {
	w        *bufio.Writer
	opts     RDFXMLOptions
	indent   string
	prefixes map[string]string
	nsToPref map[string]string
	qnames   map[string]string
	autoSeq  int

	order     []Term
	bySubject map[string][]Triple
	blankRefs map[string]int
	written   map[string]bool
}

// WriteRDFXML serializes g as abbreviated RDF/XML.
//
// Statements are grouped by subject in first-appearance order. A subject's
// first rdf:type that can be written as a qualified name becomes the element
// name. Blank nodes referenced exactly once are nested inside the referencing
// property element. Namespaces without a bound prefix are declared as ns0,
// ns1, ... on the root element.
func WriteRDFXML(w io.Writer, g *Graph, opts RDFXMLOptions) error {
	x := &rdfxmlWriter{
		w:         bufio.NewWriter(w),
		opts:      opts,
		indent:    opts.Indent,
		prefixes:  g.Prefixes(),
		nsToPref:  map[string]string{},
		qnames:    map[string]string{},
		bySubject: map[string][]Triple{},
		blankRefs: map[string]int{},
		written:   map[string]bool{},
	}
	if x.indent == "" {
		x.indent = "  "
	}
	for _, prefix := range sortedPrefixKeys(x.prefixes) {
		x.nsToPref[x.prefixes[prefix]] = prefix
	}
	if err := x.prepare(g.Triples()); err != nil {
		return err
	}
	if err := x.writeDocument(); err != nil {
		return err
	}
	return x.w.Flush()
}

func termKey(t Term) string {
	return fmt.Sprintf("%d|%s", t.Kind(), t.String())
}

func (x *rdfxmlWriter) prepare(triples []Triple) error {
	for _, t := range triples {
		switch t.S.(type) {
		case IRI, BlankNode:
		default:
			return fmt.Errorf("rdfxml: unsupported subject type %T", t.S)
		}
		key := termKey(t.S)
		if _, ok := x.bySubject[key]; !ok {
			x.order = append(x.order, t.S)
		}
		x.bySubject[key] = append(x.bySubject[key], t)
		if b, ok := t.O.(BlankNode); ok {
			x.blankRefs[b.ID]++
		}
		if _, ok := x.qname(t.P.Value); !ok {
			return fmt.Errorf("rdfxml: unable to abbreviate predicate IRI %q", t.P.Value)
		}
		if iri, ok := t.O.(IRI); ok && t.P == RDFType {
			x.qname(iri.Value)
		}
	}
	return nil
}

func (x *rdfxmlWriter) writeDocument() error {
	x.w.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	root := `<rdf:RDF xmlns:rdf="` + escapeXML(RDFNS) + `"`
	if x.opts.BaseIRI != "" {
		root += ` xml:base="` + escapeXML(x.opts.BaseIRI) + `"`
	}
	for _, prefix := range sortedPrefixKeys(x.prefixes) {
		if prefix == "rdf" {
			continue
		}
		ns := x.prefixes[prefix]
		if prefix == "" {
			root += ` xmlns="` + escapeXML(ns) + `"`
			continue
		}
		root += ` xmlns:` + prefix + `="` + escapeXML(ns) + `"`
	}
	x.w.WriteString(root + ">\n")

	for _, s := range x.order {
		if x.written[termKey(s)] {
			continue
		}
		if b, ok := s.(BlankNode); ok && x.inlinable(b) {
			continue
		}
		if err := x.writeNode(s, 1, false); err != nil {
			return err
		}
	}
	// Blank nodes whose only referrer was itself inlined elsewhere.
	for _, s := range x.order {
		if x.written[termKey(s)] {
			continue
		}
		if err := x.writeNode(s, 1, false); err != nil {
			return err
		}
	}
	x.w.WriteString("</rdf:RDF>\n")
	return nil
}

func (x *rdfxmlWriter) inlinable(b BlankNode) bool {
	key := termKey(b)
	return x.blankRefs[b.ID] == 1 && !x.written[key] && len(x.bySubject[key]) > 0
}

func (x *rdfxmlWriter) writeNode(s Term, depth int, inline bool) error {
	key := termKey(s)
	x.written[key] = true

	elem := "rdf:Description"
	typed := false
	var rest []Triple
	for _, t := range x.bySubject[key] {
		if !typed && t.P == RDFType {
			if iri, ok := t.O.(IRI); ok {
				if q, ok := x.qname(iri.Value); ok {
					elem = q
					typed = true
					continue
				}
			}
		}
		rest = append(rest, t)
	}

	attr := ""
	switch v := s.(type) {
	case IRI:
		attr = ` rdf:about="` + escapeXML(v.Value) + `"`
	case BlankNode:
		if !inline && x.blankRefs[v.ID] > 0 {
			attr = ` rdf:nodeID="` + escapeXML(v.ID) + `"`
		}
	}

	pad := strings.Repeat(x.indent, depth)
	if len(rest) == 0 {
		fmt.Fprintf(x.w, "%s<%s%s/>\n", pad, elem, attr)
		return nil
	}
	fmt.Fprintf(x.w, "%s<%s%s>\n", pad, elem, attr)
	for _, t := range rest {
		if err := x.writeProperty(t, depth+1); err != nil {
			return err
		}
	}
	fmt.Fprintf(x.w, "%s</%s>\n", pad, elem)
	return nil
}

func (x *rdfxmlWriter) writeProperty(t Triple, depth int) error {
	pred, ok := x.qname(t.P.Value)
	if !ok {
		return fmt.Errorf("rdfxml: unable to abbreviate predicate IRI %q", t.P.Value)
	}
	pad := strings.Repeat(x.indent, depth)
	switch o := t.O.(type) {
	case IRI:
		fmt.Fprintf(x.w, "%s<%s rdf:resource=\"%s\"/>\n", pad, pred, escapeXML(o.Value))
	case BlankNode:
		if x.inlinable(o) {
			fmt.Fprintf(x.w, "%s<%s>\n", pad, pred)
			if err := x.writeNode(o, depth+1, true); err != nil {
				return err
			}
			fmt.Fprintf(x.w, "%s</%s>\n", pad, pred)
			return nil
		}
		fmt.Fprintf(x.w, "%s<%s rdf:nodeID=\"%s\"/>\n", pad, pred, escapeXML(o.ID))
	case Literal:
		if o.Lang != "" && o.Datatype.Value != "" {
			return fmt.Errorf("rdfxml: literal cannot have both language and datatype")
		}
		attrs := ""
		if o.Lang != "" {
			attrs = ` xml:lang="` + escapeXML(o.Lang) + `"`
		} else if o.Datatype.Value != "" {
			attrs = ` rdf:datatype="` + escapeXML(o.Datatype.Value) + `"`
		}
		fmt.Fprintf(x.w, "%s<%s%s>%s</%s>\n", pad, pred, attrs, escapeXML(o.Lexical), pred)
	default:
		return fmt.Errorf("rdfxml: unsupported object type %T", t.O)
	}
	return nil
}

// qname abbreviates iri, binding an ns<N> prefix for unknown namespaces.
func (x *rdfxmlWriter) qname(iri string) (string, bool) {
	if q, ok := x.qnames[iri]; ok {
		return q, true
	}
	ns, local, ok := splitIRIForQName(iri)
	if !ok {
		return "", false
	}
	prefix, ok := x.nsToPref[ns]
	if !ok {
		for {
			prefix = fmt.Sprintf("ns%d", x.autoSeq)
			x.autoSeq++
			if _, taken := x.prefixes[prefix]; !taken {
				break
			}
		}
		x.prefixes[prefix] = ns
		x.nsToPref[ns] = prefix
	}
	q := local
	if prefix != "" {
		q = prefix + ":" + local
	}
	x.qnames[iri] = q
	return q, true
}

func splitIRIForQName(iri string) (string, string, bool) {
	idx := strings.LastIndexAny(iri, "#/")
	if idx <= 0 || idx+1 >= len(iri) {
		return "", "", false
	}
	ns := iri[:idx+1]
	local := iri[idx+1:]
	if !isQNameLocal(local) {
		return "", "", false
	}
	return ns, local, true
}

func isQNameLocal(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if i == 0 {
			if !isNameStartChar(ch) {
				return false
			}
		} else if !isNameChar(ch) {
			return false
		}
	}
	return true
}

func isNameStartChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func isNameChar(ch byte) bool {
	return isNameStartChar(ch) || (ch >= '0' && ch <= '9') || ch == '-' || ch == '.'
}

var xmlEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
	`'`, "&apos;",
)

func escapeXML(value string) string {
	return xmlEscaper.Replace(value)
}

func sortedPrefixKeys(prefixes map[string]string) []string {
	keys := make([]string, 0, len(prefixes))
	for key := range prefixes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
