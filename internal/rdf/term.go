package rdf

import "fmt"

// Well-known namespaces.
const (
	RDFNS = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XSDNS = "http://www.w3.org/2001/XMLSchema#"
)

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
)

// Term is a value that can appear in RDF statements.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI represents an RDF IRI, absolute or relative to the document base.
type IRI struct {
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// BlankNode represents an RDF blank node.
type BlankNode struct {
	ID string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// Literal represents an RDF literal. Lang and Datatype are mutually exclusive.
type Literal struct {
	Lexical  string
	Datatype IRI
	Lang     string
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns a string representation of the literal.
func (l Literal) String() string {
	if l.Lang != "" {
		return fmt.Sprintf("%q@%s", l.Lexical, l.Lang)
	}
	if l.Datatype.Value != "" {
		return fmt.Sprintf("%q^^<%s>", l.Lexical, l.Datatype.Value)
	}
	return fmt.Sprintf("%q", l.Lexical)
}

// Triple is an RDF statement.
type Triple struct {
	S Term
	P IRI
	O Term
}

// Namespace builds IRIs sharing a common prefix.
type Namespace string

// IRI returns the namespace IRI for a local name.
func (ns Namespace) IRI(local string) IRI {
	return IRI{Value: string(ns) + local}
}

// Common vocabulary terms.
var (
	RDFType = Namespace(RDFNS).IRI("type")
	RDFSeq  = Namespace(RDFNS).IRI("Seq")

	XSDInt      = Namespace(XSDNS).IRI("int")
	XSDDateTime = Namespace(XSDNS).IRI("dateTime")
)

// PlainLiteral returns an untyped literal without a language tag.
func PlainLiteral(value string) Literal {
	return Literal{Lexical: value}
}

// LangLiteral returns a language-tagged literal.
func LangLiteral(value, lang string) Literal {
	return Literal{Lexical: value, Lang: lang}
}

// IntLiteral returns an xsd:int literal.
func IntLiteral(value int) Literal {
	return Literal{Lexical: fmt.Sprintf("%d", value), Datatype: XSDInt}
}

// SeqMember returns the container membership property rdf:_n (n starts at 1).
func SeqMember(n int) IRI {
	return Namespace(RDFNS).IRI(fmt.Sprintf("_%d", n))
}
