// Package extension defines the contract between a host CEP engine and the
// scalar functions it loads.
//
// A host interacts with a function through three narrow points:
//
//  1. Declaration: static metadata (namespace, name, parameter kinds, return
//     kind) used for query compilation and documentation.
//  2. Validation: called once per query compile with the resolved argument
//     kinds. Failures are *ConfigurationError and reject the query.
//  3. Evaluation: called once per matching event with the resolved argument
//     values. Failures are *RuntimeError; the host decides whether to drop
//     the event, halt the query, or log and continue.
//
// Registry.Bind performs step 2 and returns a Validated handle, the only
// way to reach step 3. A function is therefore never evaluated with kinds it
// has not accepted.
package extension
