package easy

import (
	"time"

	"github.com/kbukum/xfer/errors"
	"github.com/kbukum/xfer/info"
	"github.com/kbukum/xfer/logger"
	"github.com/kbukum/xfer/status"
)

// PerformEvent describes one finished Perform.
type PerformEvent struct {
	HandleID     string
	URL          string
	Protocol     string
	ResponseCode int64
	Downloaded   int64
	Uploaded     int64
	Start        time.Time
	Duration     time.Duration
	Code         status.Code
	Err          error
}

// Observer is notified after every Perform, successful or not.
type Observer interface {
	OnPerform(PerformEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(PerformEvent)

// OnPerform calls f(ev).
func (f ObserverFunc) OnPerform(ev PerformEvent) { f(ev) }

// Perform runs the configured transfer and blocks until it completes. It
// cannot be cancelled; bound it with the timeout options.
func (h *Handle) Perform() error {
	raw, err := h.raw()
	if err != nil {
		return err
	}
	start := time.Now()
	code := h.lib.EasyPerform(raw)
	err = status.Check(code)
	if err != nil {
		err = annotate(err, logger.FieldHandle, h.id)
	}
	h.Complete(code, start)
	return err
}

// Complete logs the result of a transfer that ended with code and notifies
// the observers. Perform calls it; package multi calls it for transfers it
// drove. A zero start is derived from the transfer's total time.
func (h *Handle) Complete(code status.Code, start time.Time) {
	ev := h.event(code, start)
	fields := logger.TransferFields(ev.URL, ev.ResponseCode, ev.Duration)
	fields[logger.FieldStatus] = code.String()
	if ev.Err != nil {
		h.log.Warn("perform failed", logger.MergeWithError(fields, ev.Err))
	} else {
		h.log.Debug("perform done", fields)
	}
	for _, o := range h.cfg.observers {
		o.OnPerform(ev)
	}
}

func (h *Handle) event(code status.Code, start time.Time) PerformEvent {
	total, _ := h.GetTime(info.TotalTime)
	if total == 0 && !start.IsZero() {
		total = time.Since(start)
	}
	if start.IsZero() {
		start = time.Now().Add(-total)
	}
	ev := PerformEvent{
		HandleID: h.id,
		Start:    start,
		Duration: total,
		Code:     code,
		Err:      status.Check(code),
	}
	ev.URL, _ = h.GetString(info.EffectiveURL)
	ev.Protocol, _ = h.GetString(info.Scheme)
	ev.ResponseCode, _ = h.GetLong(info.ResponseCode)
	ev.Downloaded, _ = h.GetOffT(info.SizeDownload)
	ev.Uploaded, _ = h.GetOffT(info.SizeUpload)
	return ev
}

func annotate(err error, key string, value any) error {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.WithDetail(key, value)
	}
	return err
}
