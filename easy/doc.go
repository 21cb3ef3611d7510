// Package easy is the typed facade over a native transfer handle.
//
// A Handle owns one native easy handle and releases it exactly once on
// Close. Configure and query identifiers are split by value kind (see
// packages opt and info) and each kind has its own method, so passing an
// identifier with the wrong value type does not compile:
//
//	h, err := easy.New()
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	if err := h.SetString(opt.URL, "https://example.com"); err != nil {
//	    return err
//	}
//	if err := h.SetDuration(opt.TimeoutMS, 5*time.Second); err != nil {
//	    return err
//	}
//	if err := h.Perform(); err != nil {
//	    return err
//	}
//	code, _ := h.GetLong(info.ResponseCode)
//
// Every non-OK native status surfaces as an *errors.AppError; use
// status.CodeOf to recover the transfer code. A Handle is not safe for
// concurrent use.
package easy
