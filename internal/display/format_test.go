package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1024 * 1024, "1.0 MiB"},
		{3 * 1024 * 1024 * 1024, "3.0 GiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.bytes), "bytes=%d", tt.bytes)
	}
}

func TestFormatBytesWithSign(t *testing.T) {
	assert.Equal(t, "+ 1.0 MiB", FormatBytesWithSign(1024*1024))
	assert.Equal(t, "- 1.0 MiB", FormatBytesWithSign(-1024*1024))
	assert.Equal(t, "0 B", FormatBytesWithSign(0))
}

func TestFormatBitrateLabel(t *testing.T) {
	tests := []struct {
		kbps int64
		want string
	}{
		{0, "unknown"},
		{800, "800 kbps"},
		{1000, "1.0 Mbps"},
		{25000, "25.0 Mbps"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBitrateLabel(tt.kbps), "kbps=%d", tt.kbps)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", FormatDuration(0))
	assert.Equal(t, "1:05", FormatDuration(65*time.Second))
	assert.Equal(t, "1:02:03", FormatDuration(time.Hour+2*time.Minute+3*time.Second))
	assert.Equal(t, "0:00", FormatDuration(-time.Second))
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(
		[]string{"File", "Status"},
		[][]string{{"a.mkv", "ok"}, {"b.mkv"}, {"c.mkv", "ok", "extra"}},
		[]Align{AlignLeft, AlignRight},
	)
	assert.Contains(t, out, "│ File  │ Status │", "headers keep their case")
	assert.NotContains(t, out, "FILE")
	assert.Contains(t, out, "│ a.mkv │     ok │")
	assert.NotContains(t, out, "extra")
	assert.Contains(t, out, "a.mkv")
	assert.Contains(t, out, "b.mkv")
	assert.True(t, strings.HasPrefix(out, "╭"), "rounded style")
	assert.Empty(t, RenderTable(nil, nil, nil))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
}
