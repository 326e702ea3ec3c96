// Package phivolcs retrieves regional earthquake records from the PHIVOLCS
// catalog, which is only reachable through an external scraper script.
//
// Two interchangeable strategies implement the same [Fetcher] contract:
//
//   - Local: run the script as a subprocess through a Python interpreter
//     and capture its stdout.
//   - Remote: call a sibling HTTP endpoint that runs the identical script
//     and returns the identical body.
//
// Both paths yield the same JSON envelope, {"quakes": [...]} with an
// optional top-level "error" string, so callers never branch on which
// strategy executed. Strategy selection happens once, in [New], from the
// injected configuration; nothing here reads the environment at request
// time. Parsing and validation live entirely outside the invocation
// boundary ([DecodeEnvelope]) for the same reason.
package phivolcs
