// Package profile maps a reusable set of transfer settings onto a handle.
//
// A Profile is what the xfer configuration file and command line flags
// describe: identity, time limits, redirect policy, headers, proxy and TLS.
// It is validated as a whole before any option reaches the handle, so a bad
// profile leaves the handle untouched.
//
//	p := profile.Default()
//	p.Headers = append(p.Headers, "Accept: application/json")
//	applied, err := p.Apply(h)
//	if err != nil {
//	    return err
//	}
//	defer applied.Close()
package profile
