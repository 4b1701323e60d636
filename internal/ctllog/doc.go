// Package ctllog reads CTL test-execution logs and correlates test calls with
// the log records they produced.
//
// An execution log nests one log element per test invocation. Each log
// carries an xml:base location, a starttest/endtest pair and the testcall
// elements naming the sub-tests it invoked:
//
//	<execution>
//	  <log xml:base="file:/home/te_base/s0001/log.xml">
//	    <starttest local-name="main"/>
//	    <testcall path="s0001/d1e5_1"/>
//	    <log xml:base="file:/home/te_base/s0001/d1e5_1/log.xml">
//	      <starttest local-name="basic-crs"/>
//	      <conformanceClass/>
//	      ...
//	      <endtest result="1"/>
//	    </log>
//	    <endtest result="1"/>
//	  </log>
//	</execution>
//
// Each execution is parsed into a preorder arena of LogRecord values. The
// records nested under a record occupy a contiguous range directly after it,
// so the candidate set for a scope is a plain sub-slice. Test calls are
// correlated to records by comparing the call path with the record's
// normalized base location, never by element identity.
package ctllog
