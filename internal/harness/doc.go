// Package harness runs normalization conformance scenarios.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: call_basics
//	description: "Literal, member and nested call arguments"
//	max_depth: 64            # optional, 0 = unbounded
//	require_call_root: true  # optional
//	cases:
//	  - name: literal_args
//	    ast:
//	      type: CallExpression
//	      callee: { type: Identifier, name: foo }
//	      arguments:
//	        - { type: StringLiteral, value: bar }
//	    expect:
//	      func: foo
//	      args: 1
//	      ir: { type: call_expression, funcCall: foo, args: [...] }
//	      eval: { result: "...", calls: [foo] }
//	  - name: arrow_rejected
//	    ast: { ... }
//	    expect:
//	      error: UNSUPPORTED_ARGUMENT_KIND
//	      position: 0
//	      location: $.arguments[0]
//
// Unknown fields are rejected so typos surface as load errors.
//
// # Golden Files
//
// RunWithGolden snapshots every case (canonical IR, or error code and
// location) into testdata/golden/<name>.golden via goldie.
package harness
