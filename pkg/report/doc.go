// Package report renders crawl runs.
//
// Two formats are produced from a [session.Run]:
//
//   - [WriteText]: a plain summary with per-package lines
//   - [WriteJSON]: a machine-readable export
//
// The JSON export has the shape
//
//	{
//	  "metadata": {
//	    "runId": "...",
//	    "crawledAt": "2025-07-10T12:00:00Z",
//	    "totalPackages": 3,
//	    "successful": 2,
//	    "failed": 1,
//	    "fingerprint": "9f2c..."
//	  },
//	  "results": [ ...outcomes... ]
//	}
//
// The fingerprint is the SHA-256 of the RFC 8785 canonical form of the
// package, kind, version and failure reason of every outcome. Two runs that
// resolved the same versions share a fingerprint regardless of timing.
//
// When a previous run is given, both formats mark packages whose resolved
// version changed (see [Diff]).
package report
