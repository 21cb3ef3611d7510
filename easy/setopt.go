package easy

import (
	"io"
	"maps"
	"time"

	"github.com/kbukum/xfer/errors"
	"github.com/kbukum/xfer/logger"
	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/opt"
	"github.com/kbukum/xfer/share"
	"github.com/kbukum/xfer/slist"
	"github.com/kbukum/xfer/status"
)

func (h *Handle) setopt(o native.Option, value any) error {
	raw, err := h.raw()
	if err != nil {
		return err
	}
	if err := status.Check(h.lib.EasySetopt(raw, o, value)); err != nil {
		return annotate(err, logger.FieldOption, int(o))
	}
	return nil
}

// SetString sets a text option.
func (h *Handle) SetString(o opt.String, v string) error {
	return h.setopt(native.Option(o), v)
}

// SetLong sets an integer option.
func (h *Handle) SetLong(o opt.Long, v int64) error {
	return h.setopt(native.Option(o), v)
}

// SetBool sets a boolean option, passed natively as 0 or 1.
func (h *Handle) SetBool(o opt.Bool, v bool) error {
	var n int64
	if v {
		n = 1
	}
	return h.setopt(native.Option(o), n)
}

// SetOffT sets a 64-bit size option.
func (h *Handle) SetOffT(o opt.OffT, v int64) error {
	return h.setopt(native.Option(o), v)
}

// SetDuration sets a millisecond option. Sub-millisecond precision is
// truncated.
func (h *Handle) SetDuration(o opt.Duration, d time.Duration) error {
	return h.setopt(native.Option(o), d.Milliseconds())
}

// SetList sets a list option. The handle borrows l: it must stay open
// until the handle is closed or reset, or the option is set again. libcurl
// reads the caller's nodes during Perform and Duplicate copies the pointer,
// so the handle and its duplicates keep a reference to l until then. A nil
// list clears the option. l must come from the handle's library.
func (h *Handle) SetList(o opt.List, l *slist.List) error {
	if l == nil {
		if err := h.setopt(native.Option(o), nil); err != nil {
			return err
		}
		delete(h.lists, o)
		return nil
	}
	if l.Library() != h.lib {
		return errors.InvalidInput("list", "allocated by a different native library").
			WithDetail(logger.FieldOption, int(o))
	}
	if err := h.setopt(native.Option(o), l.Raw()); err != nil {
		return err
	}
	if h.lists == nil {
		h.lists = make(map[opt.List]*slist.List)
	}
	h.lists[o] = l
	return nil
}

// Lists returns the lists the handle currently borrows, by option.
func (h *Handle) Lists() map[opt.List]*slist.List {
	return maps.Clone(h.lists)
}

// SetWriteFunc sets a callback receiving response data. Returning fewer
// bytes than passed aborts the transfer.
func (h *Handle) SetWriteFunc(o opt.WriteCallback, fn native.WriteFunc) error {
	return h.setopt(native.Option(o), fn)
}

// SetReadFunc sets the callback supplying upload data.
func (h *Handle) SetReadFunc(o opt.ReadCallback, fn native.ReadFunc) error {
	return h.setopt(native.Option(o), fn)
}

// SetProgressFunc sets the progress callback. Progress is only reported
// once NOPROGRESS is cleared.
func (h *Handle) SetProgressFunc(o opt.ProgressCallback, fn native.ProgressFunc) error {
	return h.setopt(native.Option(o), fn)
}

// SetDebugFunc sets the verbose trace callback.
func (h *Handle) SetDebugFunc(o opt.DebugCallback, fn native.DebugFunc) error {
	return h.setopt(native.Option(o), fn)
}

// SetShare attaches the handle to s. A nil share detaches it. s must come
// from the handle's library.
func (h *Handle) SetShare(o opt.Shared, s *share.Share) error {
	if s == nil {
		return h.setopt(native.Option(o), nil)
	}
	if s.Library() != h.lib {
		return errors.InvalidInput("share", "allocated by a different native library")
	}
	return h.setopt(native.Option(o), s.Raw())
}

// SetWriter sends response bodies to w.
func (h *Handle) SetWriter(w io.Writer) error {
	return h.SetWriteFunc(opt.WriteFunction, writeFunc(w))
}

// SetHeaderWriter sends response header lines to w.
func (h *Handle) SetHeaderWriter(w io.Writer) error {
	return h.SetWriteFunc(opt.HeaderFunction, writeFunc(w))
}

// SetReader takes upload data from r. A read error aborts the transfer.
func (h *Handle) SetReader(r io.Reader) error {
	return h.SetReadFunc(opt.ReadFunction, func(p []byte) int {
		for {
			n, err := r.Read(p)
			switch {
			case n > 0:
				return n
			case err == io.EOF:
				return 0
			case err != nil:
				return native.ReadAbort
			}
		}
	})
}

func writeFunc(w io.Writer) native.WriteFunc {
	return func(p []byte) int {
		n, err := w.Write(p)
		if err != nil {
			return 0
		}
		return n
	}
}
