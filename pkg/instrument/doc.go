// Package instrument provides observation hooks for the reconciliation
// engine: Prometheus metrics, OpenTelemetry spans, or both through Multi.
//
//	hooks := instrument.Multi(
//	    instrument.Prometheus(instrument.WithNamespace("myapp")),
//	    instrument.OpenTelemetry(),
//	)
//	root, err := reconcile.AppendElement(doc, container, tree, reconcile.WithHooks(hooks))
package instrument
