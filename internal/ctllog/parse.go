package ctllog

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// Element and attribute names of the CTL log vocabulary.
const (
	elemExecution        = "execution"
	elemLog              = "log"
	elemStartTest        = "starttest"
	elemEndTest          = "endtest"
	elemTestCall         = "testcall"
	elemConformanceClass = "conformanceClass"

	attrLocalName = "local-name"
	attrResult    = "result"
	attrPath      = "path"
)

// ParseFile reads and parses the execution log at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open execution log: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads an execution log document.
//
// Every execution element becomes one Execution whose root is the first log
// element directly inside it; further top-level logs of the same execution
// are skipped. Markup outside execution elements is ignored.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	p := &parser{dec: dec, doc: &Document{}}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Line: p.line(), Message: "malformed document", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.start(t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if err := p.end(t); err != nil {
				return nil, err
			}
		}
	}
	return p.doc, nil
}

type parser struct {
	dec   *xml.Decoder
	doc   *Document
	exec  *Execution
	depth int
	// execDepth is the element depth of the open execution element.
	execDepth int
	// open holds arena indices of the log elements currently open.
	open []int
}

func (p *parser) line() int {
	line, _ := p.dec.InputPos()
	return line
}

func (p *parser) current() *LogRecord {
	if p.exec == nil || len(p.open) == 0 {
		return nil
	}
	return &p.exec.records[p.open[len(p.open)-1]]
}

func (p *parser) start(se xml.StartElement) error {
	p.depth++
	switch se.Name.Local {
	case elemExecution:
		if p.exec != nil {
			return &ParseError{Line: p.line(), Message: "nested execution element"}
		}
		p.exec = &Execution{}
		p.execDepth = p.depth
	case elemLog:
		if p.exec == nil {
			return nil
		}
		if len(p.open) == 0 && len(p.exec.records) > 0 {
			// Only the first top-level log of an execution is its root.
			p.depth--
			if err := p.dec.Skip(); err != nil {
				return &ParseError{Line: p.line(), Message: "malformed log element", Err: err}
			}
			return nil
		}
		idx := len(p.exec.records)
		p.exec.records = append(p.exec.records, LogRecord{
			Index: idx,
			Base:  baseAttr(se),
			Line:  p.line(),
			end:   -1,
		})
		p.open = append(p.open, idx)
	case elemStartTest:
		if rec := p.current(); rec != nil && rec.LocalName == "" {
			rec.LocalName, _ = attr(se, attrLocalName)
		}
	case elemEndTest:
		if rec := p.current(); rec != nil && rec.Result == "" {
			rec.Result, _ = attr(se, attrResult)
		}
	case elemTestCall:
		if rec := p.current(); rec != nil {
			path, ok := attr(se, attrPath)
			if !ok {
				return &ParseError{Line: p.line(), Message: "testcall without path attribute"}
			}
			rec.Calls = append(rec.Calls, CallNode{Path: path})
		}
	case elemConformanceClass:
		if rec := p.current(); rec != nil {
			rec.ConformanceClass = true
		}
	}
	return nil
}

func (p *parser) end(ee xml.EndElement) error {
	defer func() { p.depth-- }()
	if p.exec == nil {
		return nil
	}
	switch ee.Name.Local {
	case elemLog:
		if len(p.open) == 0 {
			return nil
		}
		idx := p.open[len(p.open)-1]
		p.open = p.open[:len(p.open)-1]
		p.exec.records[idx].end = len(p.exec.records)
	case elemExecution:
		if p.depth != p.execDepth {
			return nil
		}
		if len(p.exec.records) == 0 {
			return &ParseError{Line: p.line(), Message: "execution element has no log"}
		}
		p.doc.Executions = append(p.doc.Executions, p.exec)
		p.exec = nil
		p.open = nil
	}
	return nil
}

func attr(se xml.StartElement, local string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func baseAttr(se xml.StartElement) string {
	for _, a := range se.Attr {
		if a.Name.Local == "base" && (a.Name.Space == xmlNamespace || a.Name.Space == "xml") {
			return a.Value
		}
	}
	return ""
}
