// Package errors provides structured, coded errors for the hydra engine.
//
// Every failure the engine reports synchronously carries a registered code:
//
//   - E100-E109: runtime contract violations (unknown node or value kinds)
//   - E110-E119: controller and service binding failures
//   - E120-E129: scheduler failures (update storms)
//   - E130-E139: hydration diagnostics (logged, never returned)
//   - E140-E149: configuration errors
//   - E150-E159: render and CLI errors
//
// # Usage
//
//	err := errors.New("E110").
//	    WithDetailf("controller %q requires %q", "todo-item", "todo-list")
//
//	fmt.Println(err.Format())
//
// Use HasCode to test for a code anywhere in a wrapped chain.
package errors
