// Package testutil provides test fixtures for code that performs transfers.
//
// The main fixture is HTTPBin, an httpbin-style server built on gin that
// answers with predictable bodies, status codes, redirects, cookies and
// encodings:
//
//	func TestFetch(t *testing.T) {
//	    bin := testutil.T(t).HTTPBin()
//	    h, _ := easy.New()
//	    defer h.Close()
//	    h.SetString(opt.URL, bin.URL("/status/418"))
//	    ...
//	}
//
// Fixtures share a small lifecycle (Start, Stop, Reset) so a Manager can
// run several of them together.
package testutil
