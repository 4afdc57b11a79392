package summary

import (
	"strconv"

	"go.uber.org/zap"

	unoinspect "github.com/wippyai/uno-inspect"
	"github.com/wippyai/uno-inspect/internal/rtlstr"
)

const (
	utf8  = rtlstr.UTF8
	utf16 = rtlstr.UTF16

	invalidString = "<invalid string>"
	ellipsis      = "…"
)

// stringHandle renders rtl::OString and rtl::OUString style handles.
func (r *Renderer) stringHandle(v unoinspect.Value, enc rtlstr.Encoding) string {
	p, err := v.Field("pData")
	if err != nil {
		return invalidString
	}
	if raw, err := p.Uint(); err != nil || raw == 0 {
		return invalidString
	}
	rec, err := p.Deref()
	if err != nil {
		return invalidString
	}
	return r.stringRecord(rec, enc)
}

func (r *Renderer) stringRecord(v unoinspect.Value, enc rtlstr.Encoding) string {
	s, truncated, err := rtlstr.Read(v, enc, rtlstr.MaxLength)
	if err != nil {
		r.log.Debug("string unreadable", zap.Uint64("addr", v.Address()), zap.Error(err))
		return invalidString
	}
	out := strconv.Quote(s)
	if truncated {
		out += ellipsis
	}
	return out
}
