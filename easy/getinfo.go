package easy

import (
	"time"

	"github.com/kbukum/xfer/info"
	"github.com/kbukum/xfer/logger"
	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/proto"
	"github.com/kbukum/xfer/slist"
	"github.com/kbukum/xfer/status"
)

func (h *Handle) getinfo(i native.Info, out any) error {
	raw, err := h.raw()
	if err != nil {
		return err
	}
	if err := status.Check(h.lib.EasyGetinfo(raw, i, out)); err != nil {
		return annotate(err, logger.FieldInfo, int(i))
	}
	return nil
}

// GetString returns a text result. Unset results are empty.
func (h *Handle) GetString(i info.String) (string, error) {
	var v string
	err := h.getinfo(native.Info(i), &v)
	return v, err
}

// GetLong returns an integer result.
func (h *Handle) GetLong(i info.Long) (int64, error) {
	var v int64
	err := h.getinfo(native.Info(i), &v)
	return v, err
}

// GetBool returns a boolean result.
func (h *Handle) GetBool(i info.Bool) (bool, error) {
	var v int64
	err := h.getinfo(native.Info(i), &v)
	return v != 0, err
}

// GetOffT returns a size, speed or counter result. Unknown sizes are -1.
func (h *Handle) GetOffT(i info.OffT) (int64, error) {
	var v int64
	err := h.getinfo(native.Info(i), &v)
	return v, err
}

// GetTime returns a timing result.
func (h *Handle) GetTime(i info.Time) (time.Duration, error) {
	var us int64
	if err := h.getinfo(native.Info(i), &us); err != nil {
		return 0, err
	}
	return time.Duration(us) * time.Microsecond, nil
}

// GetList returns a list result. The caller owns the returned list and must
// close it.
func (h *Handle) GetList(i info.List) (*slist.List, error) {
	var raw native.List
	if err := h.getinfo(native.Info(i), &raw); err != nil {
		return nil, err
	}
	return slist.From(h.lib, raw), nil
}

// GetProtocol returns the protocol used by the last transfer.
func (h *Handle) GetProtocol(i info.Proto) (proto.Protocol, error) {
	var v int64
	err := h.getinfo(native.Info(i), &v)
	return proto.Protocol(v), err
}

// GetHTTPVersion returns the HTTP version used by the last transfer.
func (h *Handle) GetHTTPVersion(i info.Version) (proto.HTTPVersion, error) {
	var v int64
	err := h.getinfo(native.Info(i), &v)
	return proto.HTTPVersion(v), err
}
