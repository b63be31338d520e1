package probe

import "strconv"

// Resolution returns "WxH" for a video stream, or "unknown".
func (s *Stream) Resolution() string {
	if s.Width <= 0 || s.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(s.Width) + "x" + strconv.Itoa(s.Height)
}

// IsHDR reports PQ/HLG transfer or BT.2020 primaries. Video is copied
// untouched, so this only feeds the per-file summary line.
func (s *Stream) IsHDR() bool {
	switch s.ColorTransfer {
	case "smpte2084", "arib-std-b67":
		return true
	}
	return s.ColorPrimaries == "bt2020"
}

// IsInterlaced checks field_order for tt, bb, tb, bt.
func (s *Stream) IsInterlaced() bool {
	switch s.FieldOrder {
	case "tt", "bb", "tb", "bt":
		return true
	}
	return false
}
