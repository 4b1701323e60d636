package testutil

import (
	"fmt"
	"strings"
)

// FixtureRoot is the host/workspace prefix of fixture base locations. It has
// exactly three segments ("file:", "home", "te_base") so that the path key of
// BaseFor(key) is key itself.
const FixtureRoot = "file:/home/te_base/"

// TestLog describes one log element of a fixture execution.
type TestLog struct {
	// Key is the path key of the log, e.g. "s0001/d1e5_1".
	Key string
	// Base overrides the xml:base written for the log; BaseFor(Key) when empty.
	Base string
	// Name is the starttest local-name.
	Name string
	// Result is the endtest result code.
	Result int
	// ConformanceClass adds a conformanceClass marker.
	ConformanceClass bool
	// NoLog emits the parent's testcall but omits this log element.
	NoLog bool
	// Children are the sub-tests, each emitted as testcall + nested log.
	Children []TestLog
}

// BaseFor returns the fixture base location whose path key is key.
func BaseFor(key string) string {
	return FixtureRoot + key + "/log.xml"
}

// ExecutionXML renders a single execution whose root log is root.
func ExecutionXML(root TestLog) string {
	return DocumentXML(root)
}

// DocumentXML renders one execution per root inside a report element.
func DocumentXML(roots ...TestLog) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString("<report>\n")
	for _, root := range roots {
		b.WriteString("  <execution>\n")
		writeLog(&b, root, 2)
		b.WriteString("  </execution>\n")
	}
	b.WriteString("</report>\n")
	return b.String()
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")

func writeLog(b *strings.Builder, l TestLog, depth int) {
	pad := strings.Repeat("  ", depth)
	base := l.Base
	if base == "" {
		base = BaseFor(l.Key)
	}
	fmt.Fprintf(b, "%s<log xml:base=\"%s\">\n", pad, attrEscaper.Replace(base))
	fmt.Fprintf(b, "%s  <starttest local-name=\"%s\"/>\n", pad, attrEscaper.Replace(l.Name))
	if l.ConformanceClass {
		fmt.Fprintf(b, "%s  <conformanceClass/>\n", pad)
	}
	for _, child := range l.Children {
		fmt.Fprintf(b, "%s  <testcall path=\"%s\"/>\n", pad, attrEscaper.Replace(child.Key))
		if !child.NoLog {
			writeLog(b, child, depth+1)
		}
	}
	fmt.Fprintf(b, "%s  <endtest result=\"%d\"/>\n", pad, l.Result)
	fmt.Fprintf(b, "%s</log>\n", pad)
}
