package planner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/jellystream/internal/config"
	"github.com/backmassage/jellystream/internal/probe"
)

// --- Helper builders ---

func defaultCfg() *config.Config {
	cfg := config.DefaultConfig()
	cfg.OutputDir = "/out"
	return &cfg
}

func video(idx int, codec string) probe.Stream {
	return probe.Stream{Index: idx, Type: probe.TypeVideo, Codec: codec, Tags: map[string]string{}}
}

func audio(idx int, codec string, channels int, layout string) probe.Stream {
	return probe.Stream{
		Index: idx, Type: probe.TypeAudio, Codec: codec,
		Channels: channels, ChannelLayout: layout,
		Tags: map[string]string{"language": "eng"},
	}
}

func subtitle(idx int, codec, lang, title string) probe.Stream {
	tags := map[string]string{}
	if lang != "" {
		tags["language"] = lang
	}
	if title != "" {
		tags["title"] = title
	}
	return probe.Stream{Index: idx, Type: probe.TypeSubtitle, Codec: codec, Tags: tags}
}

func font(idx int, name string) probe.Stream {
	return probe.Stream{
		Index: idx, Type: probe.TypeAttachment, Codec: "ttf",
		Tags: map[string]string{"filename": name, "mimetype": "application/x-truetype-font"},
	}
}

func mkv(streams ...probe.Stream) *probe.Result {
	return &probe.Result{
		Format:  probe.FormatInfo{FormatName: probe.MatroskaFormat},
		Streams: streams,
	}
}

func requireRejected(t *testing.T, err error, contains string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCannotProcess), "want a rejection, got %T", err)
	assert.Contains(t, err.Error(), contains)
}

// --- BuildPlan scenarios ---

func TestBuildPlan_SurroundAndSubrip(t *testing.T) {
	cfg := defaultCfg()
	pr := mkv(
		video(0, "h264"),
		audio(1, "ac3", 6, "5.1"),
		subtitle(2, "subrip", "eng", ""),
	)

	plan, err := BuildPlan(cfg, pr, "/in/Movie.mkv")
	require.NoError(t, err)

	assert.Equal(t, 0, plan.Video.Index)
	assert.Equal(t, "/out/Movie.mp4", plan.OutputPath)
	require.Len(t, plan.Actions.Transcodes, 2)
	require.Len(t, plan.Actions.Extractions, 1)
	assert.Empty(t, plan.Actions.Groups)

	a := plan.Actions.Transcodes[0]
	assert.Equal(t, "aac", a.Codec)
	assert.Equal(t, 6*cfg.KBitPerChannel, a.BitrateK)
	assert.Equal(t, 0, a.Channels)

	x := plan.Actions.Extractions[0]
	assert.Equal(t, 1, x.Stream.Index)
	assert.Equal(t, "ac3", x.Extension)
	assert.Equal(t, "/out/Movie.eng.ac3", x.Name(plan.Annotations))

	s := plan.Actions.Transcodes[1]
	assert.Equal(t, 2, s.Stream.Index)
	assert.Equal(t, "mov_text", s.Codec)
}

func TestBuildPlan_SurroundWithoutLayoutIsDownmixed(t *testing.T) {
	cfg := defaultCfg()
	plan, err := BuildPlan(cfg, mkv(video(0, "h264"), audio(1, "ac3", 6, "")), "/in/Movie.mkv")
	require.NoError(t, err)

	a := plan.Actions.Transcodes[0]
	assert.Equal(t, 2, a.Channels)
	assert.Equal(t, 2*cfg.KBitPerChannel, a.BitrateK)
	assert.Len(t, plan.Actions.Extractions, 1, "surround source is still extracted")
}

func TestBuildPlan_AttachedPicIgnored(t *testing.T) {
	cover := video(0, "mjpeg")
	cover.Disposition.AttachedPic = true
	plan, err := BuildPlan(defaultCfg(), mkv(cover, video(1, "hevc")), "/in/Movie.mkv")
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Video.Index)
	assert.Zero(t, plan.Actions.Len())
}

func TestBuildPlan_DataStreamRejectedFirst(t *testing.T) {
	data := probe.Stream{Index: 3, Type: probe.TypeData, Codec: "bin_data", Tags: map[string]string{}}
	// The flac stream would also be rejected; the data stream must win.
	_, err := BuildPlan(defaultCfg(), mkv(video(0, "h264"), audio(1, "flac", 2, "stereo"), data), "/in/Movie.mkv")
	requireRejected(t, err, "#3 (data,bin_data,und)")
}

func TestBuildPlan_NotMatroska(t *testing.T) {
	pr := mkv(video(0, "h264"))
	pr.Format.FormatName = "mov,mp4,m4a,3gp,3g2,mj2"
	_, err := BuildPlan(defaultCfg(), pr, "/in/Movie.mkv")
	requireRejected(t, err, "container format")
}

func TestBuildPlan_MoveTargetAndDefaultOutputDir(t *testing.T) {
	cfg := defaultCfg()
	cfg.OutputDir = ""
	cfg.MoveDir = "/done"
	plan, err := BuildPlan(cfg, mkv(video(0, "h264")), "/in/Movie.mkv")
	require.NoError(t, err)
	assert.Equal(t, "/in/Movie.mp4", plan.OutputPath)
	assert.Equal(t, "/done/Movie.mkv", plan.MoveTarget)
	assert.Equal(t, []string{"/in/Movie.mp4", "/done/Movie.mkv"}, plan.Outputs())
}

// --- Video ---

func TestSelectVideo(t *testing.T) {
	still := video(2, "png")
	still.Disposition.StillImage = true

	tests := []struct {
		name    string
		streams []probe.Stream
		wantIdx int
		wantErr string
	}{
		{"h264", []probe.Stream{video(0, "h264")}, 0, ""},
		{"av1", []probe.Stream{audio(0, "aac", 2, "stereo"), video(1, "av1")}, 1, ""},
		{"still image ignored", []probe.Stream{video(0, "hevc"), still}, 0, ""},
		{"none", []probe.Stream{audio(0, "aac", 2, "stereo")}, 0, "no video stream found"},
		{"only cover", []probe.Stream{still}, 0, "no video stream found"},
		{"two", []probe.Stream{video(0, "h264"), video(1, "hevc")}, 0, "too many video streams found"},
		{"unsupported codec", []probe.Stream{video(0, "mpeg2video")}, 0, "#0 (video,mpeg2video,und) unsupported"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := SelectVideo(tt.streams)
			if tt.wantErr != "" {
				requireRejected(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIdx, v.Index)
		})
	}
}

// --- Audio ---

func TestClassifyAudio_CopyCodecs(t *testing.T) {
	for _, codec := range []string{"aac", "mp3", "opus"} {
		t.Run(codec, func(t *testing.T) {
			c, err := ClassifyAudio(defaultCfg(), []probe.Stream{audio(1, codec, 6, "5.1")}, "/out/M")
			require.NoError(t, err)
			require.Len(t, c.Transcodes, 1)
			assert.Equal(t, CodecCopy, c.Transcodes[0].Codec)
			assert.Empty(t, c.Extractions)
		})
	}
}

func TestClassifyAudio_TranscodeCodecs(t *testing.T) {
	tests := []struct {
		name          string
		codec         string
		channels      int
		layout        string
		extractStereo bool
		wantBitrate   int
		wantChannels  int
		wantExtract   bool
		wantExt       string
		wantFormat    string
	}{
		{"ac3 5.1", "ac3", 6, "5.1", false, 384, 0, true, "ac3", ""},
		{"eac3 7.1", "eac3", 8, "7.1", false, 512, 0, true, "ac3", "eac3"},
		{"dts side layout", "dts", 6, "5.1(side)", false, 128, 2, true, "dts", ""},
		{"vorbis stereo", "vorbis", 2, "stereo", false, 128, 0, false, "", ""},
		{"ac3 stereo with override", "ac3", 2, "stereo", true, 128, 0, true, "ac3", ""},
		{"ac3 mono", "ac3", 1, "mono", false, 64, 0, false, "", ""},
		{"vorbis surround", "vorbis", 6, "5.1", false, 384, 0, true, "ogg", "ogg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultCfg()
			cfg.ExtractStereo = tt.extractStereo
			c, err := ClassifyAudio(cfg, []probe.Stream{audio(1, tt.codec, tt.channels, tt.layout)}, "/out/M")
			require.NoError(t, err)

			require.Len(t, c.Transcodes, 1)
			tr := c.Transcodes[0]
			assert.Equal(t, "aac", tr.Codec)
			assert.Equal(t, tt.wantBitrate, tr.BitrateK)
			assert.Equal(t, tt.wantChannels, tr.Channels)

			if !tt.wantExtract {
				assert.Empty(t, c.Extractions)
				return
			}
			require.Len(t, c.Extractions, 1)
			x := c.Extractions[0]
			assert.Equal(t, tt.wantExt, x.Extension)
			assert.Equal(t, tt.wantFormat, x.Format)
			assert.Equal(t, CodecCopy, x.Codec)
		})
	}
}

func TestClassifyAudio_Rejections(t *testing.T) {
	_, err := ClassifyAudio(defaultCfg(), []probe.Stream{audio(1, "aac", 2, "stereo"), audio(2, "flac", 2, "stereo")}, "/out/M")
	requireRejected(t, err, "#2 (audio,flac,eng) unsupported")

	_, err = ClassifyAudio(defaultCfg(), []probe.Stream{audio(1, "dts", 0, "")}, "/out/M")
	requireRejected(t, err, "no channel count")
}

func TestAction_CodecArgs(t *testing.T) {
	cfg := defaultCfg()
	s := audio(1, "dts", 6, "5.1(side)")
	s.Tags["title"] = "DTS-HD 1080p"
	c, err := ClassifyAudio(cfg, []probe.Stream{s}, "/out/M")
	require.NoError(t, err)

	assert.Equal(t, []string{"-map", "0:1"}, c.Transcodes[0].Mapping())
	assert.Equal(t,
		[]string{"-c:3", "aac", "-ac:3", "2", "-b:3", "128k", "-metadata:s:3", "title="},
		c.Transcodes[0].CodecArgs(3))
	assert.Equal(t,
		[]string{"-c:0", "copy", "-metadata:s:0", "title="},
		c.Extractions[0].CodecArgs(7), "extractions always target stream 0")
	assert.Equal(t, "/out/M.eng.dts", c.Extractions[0].Name(nil), "cleaned title is left out")

	e := audio(2, "eac3", 6, "5.1")
	c, err = ClassifyAudio(cfg, []probe.Stream{e}, "/out/M")
	require.NoError(t, err)
	assert.Equal(t, []string{"-c:0", "copy", "-f", "eac3"}, c.Extractions[0].CodecArgs(0))
}

// --- Subtitles ---

func TestClassifySubtitles(t *testing.T) {
	tests := []struct {
		codec          string
		wantTranscode  string // "" when no transcode
		wantExtraction bool
	}{
		{"ass", "mov_text", true},
		{"subrip", "mov_text", false},
		{"dvd_subtitle", CodecCopy, false},
		{"hdmv_pgs_subtitle", "", true},
		{"dvb_subtitle", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.codec, func(t *testing.T) {
			c, err := ClassifySubtitles(defaultCfg(), []probe.Stream{subtitle(2, tt.codec, "ger", "")}, "/out/M")
			require.NoError(t, err)

			if tt.wantTranscode == "" {
				assert.Empty(t, c.Transcodes)
			} else {
				require.Len(t, c.Transcodes, 1)
				assert.Equal(t, tt.wantTranscode, c.Transcodes[0].Codec)
			}
			if !tt.wantExtraction {
				assert.Empty(t, c.Extractions)
				return
			}
			require.Len(t, c.Extractions, 1)
			x := c.Extractions[0]
			assert.Equal(t, "/out/M.ger.mks", x.Name(nil))
			assert.Equal(t, []string{"-c:0", "copy", "-f", "matroska"}, x.CodecArgs(0))
		})
	}
}

func TestClassifySubtitles_Unsupported(t *testing.T) {
	_, err := ClassifySubtitles(defaultCfg(), []probe.Stream{subtitle(4, "webvtt", "", "")}, "/out/M")
	requireRejected(t, err, "#4 (subtitle,webvtt,und) unsupported")
}

func TestClassifySubtitles_Grouped(t *testing.T) {
	cfg := defaultCfg()
	cfg.GroupStyledSubtitles = true
	c, err := ClassifySubtitles(cfg, []probe.Stream{
		subtitle(3, "ass", "eng", "Full"),
		subtitle(2, "ass", "eng", "Signs"),
		subtitle(4, "hdmv_pgs_subtitle", "eng", ""),
	}, "/out/M")
	require.NoError(t, err)

	assert.Len(t, c.Transcodes, 2)
	require.Len(t, c.Extractions, 1, "bitmap subtitles keep their own sidecar")
	require.Len(t, c.Groups, 2)

	groups := c.GroupsByName(nil)
	require.Len(t, groups, 1)
	assert.Equal(t, "/out/M.mks", groups[0].Name)
	assert.Equal(t, 2, groups[0].Members[0].Stream.Index)
	assert.Equal(t, 3, groups[0].Members[1].Stream.Index)
}

// --- Attachments ---

func TestClassifyAttachments(t *testing.T) {
	fonts := []probe.Stream{font(5, "Arial.ttf")}

	_, _, err := ClassifyAttachments(defaultCfg(), fonts, "/out/M", false)
	requireRejected(t, err, "embedded font")

	cfg := defaultCfg()
	cfg.DropFonts = true
	c, notes, err := ClassifyAttachments(cfg, fonts, "/out/M", false)
	require.NoError(t, err)
	assert.Zero(t, c.Len(), "dropped fonts produce no action")
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0], "Arial.ttf")

	c, _, err = ClassifyAttachments(defaultCfg(), fonts, "/out/M", true)
	require.NoError(t, err)
	require.Len(t, c.Groups, 1)
	assert.Equal(t, "/out/M.mks", c.Groups[0].Name(nil))

	cover := probe.Stream{Index: 6, Type: probe.TypeAttachment, Codec: "mjpeg", Tags: map[string]string{"mimetype": "image/jpeg"}}
	cfg.DropFonts = true
	_, _, err = ClassifyAttachments(cfg, []probe.Stream{cover}, "/out/M", true)
	requireRejected(t, err, "#6 (attachment,mjpeg,und) unsupported")
}

func TestBuildPlan_FontsJoinStyledGroup(t *testing.T) {
	cfg := defaultCfg()
	cfg.GroupStyledSubtitles = true
	plan, err := BuildPlan(cfg, mkv(video(0, "h264"), subtitle(1, "ass", "eng", ""), font(2, "a.ttf"), font(3, "b.otf")), "/in/M.mkv")
	require.NoError(t, err)

	groups := plan.Actions.GroupsByName(plan.Annotations)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Members, 3)
	assert.Equal(t, []string{"/out/M.mks"}, plan.Sidecars())
}

func TestBuildPlan_FontsWithoutGroupRejected(t *testing.T) {
	cfg := defaultCfg()
	cfg.GroupStyledSubtitles = true
	// A subrip-only file has no group for the font to join.
	_, err := BuildPlan(cfg, mkv(video(0, "h264"), subtitle(1, "subrip", "eng", ""), font(2, "a.ttf")), "/in/M.mkv")
	requireRejected(t, err, "embedded font")
}

// --- Dispositions and naming ---

func TestGuessDisposition(t *testing.T) {
	tests := []struct {
		title      string
		wantForced bool
		wantSDH    bool
	}{
		{"", false, false},
		{"English", false, false},
		{"Forced", true, false},
		{"English (forced)", true, false},
		{"SDH", false, true},
		{"English [sdh]", false, true},
		{"Hearing Impaired", false, true},
		{"hearing-impaired forced", true, true},
		{"Forcedly", false, false},
		{"SDHx", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			d := GuessDisposition(tt.title)
			assert.Equal(t, tt.wantForced, d.Forced)
			assert.Equal(t, tt.wantSDH, d.HearingImpaired)
		})
	}
}

func TestAnnotate(t *testing.T) {
	declared := subtitle(2, "subrip", "eng", "Forced")
	declared.Disposition.Forced = true
	streams := []probe.Stream{
		audio(1, "aac", 2, "forced"),
		declared,
		subtitle(3, "subrip", "eng", "English SDH"),
	}

	ann, notes := Annotate(streams)
	_, hasAudio := ann[1]
	assert.False(t, hasAudio, "only subtitles are guessed")
	assert.True(t, ann.Forced(&streams[1]))
	assert.True(t, ann.HearingImpaired(&streams[2]))
	assert.False(t, ann.Forced(&streams[2]))
	require.Len(t, notes, 1, "no note for an already declared flag")
	assert.Contains(t, notes[0], "#3 (subtitle,subrip,eng) is sdh")

	again, _ := Annotate(streams)
	assert.Equal(t, ann, again)
}

func TestExtractionName_UsesGuessedFlags(t *testing.T) {
	cfg := defaultCfg()
	cfg.GuessDispositions = true
	sub := subtitle(2, "hdmv_pgs_subtitle", "eng", "Forced Signs")
	sub.Disposition.Default = true
	plan, err := BuildPlan(cfg, mkv(video(0, "h264"), sub), "/in/M.mkv")
	require.NoError(t, err)

	x := plan.Actions.Extractions[0]
	want := "/out/M.Forced Signs.forced.default.eng.mks"
	assert.Equal(t, want, x.Name(plan.Annotations))
	assert.Equal(t, want, x.Name(plan.Annotations), "naming is idempotent")
	require.Len(t, plan.Notes, 1)

	cfg.GuessDispositions = false
	plan, err = BuildPlan(cfg, mkv(video(0, "h264"), sub), "/in/M.mkv")
	require.NoError(t, err)
	assert.Equal(t, "/out/M.Forced Signs.default.eng.mks", plan.Actions.Extractions[0].Name(plan.Annotations))
}

func TestNeedsCleaning(t *testing.T) {
	tests := []struct {
		title   string
		enabled bool
		want    bool
	}{
		{"BluRay 1080p x264", true, true},
		{"WEB-DL", true, true},
		{"HEVC 10bit", true, true},
		{"h.265", true, true},
		{"Director's Commentary", true, false},
		{"English", true, false},
		{"avcodec", true, false},
		{"BluRay 1080p x264", false, false},
		{"", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsCleaning(tt.title, tt.enabled))
		})
	}
}

func TestTitlePoliciesAreIndependent(t *testing.T) {
	cfg := defaultCfg()
	cfg.CleanAudioTitles = false
	a := audio(1, "aac", 2, "stereo")
	a.Tags["title"] = "AAC 1080p"
	s := subtitle(2, "subrip", "eng", "1080p BluRay")

	plan, err := BuildPlan(cfg, mkv(video(0, "h264"), a, s), "/in/M.mkv")
	require.NoError(t, err)
	assert.False(t, plan.Actions.Transcodes[0].ClearTitle)
	assert.True(t, plan.Actions.Transcodes[1].ClearTitle)
}

// --- Output checks ---

func TestCheckOutputs(t *testing.T) {
	dir := t.TempDir()
	cfg := defaultCfg()
	cfg.OutputDir = dir
	in := filepath.Join(dir, "src", "Movie.mkv")

	plan, err := BuildPlan(cfg, mkv(video(0, "h264"), audio(1, "ac3", 6, "5.1")), in)
	require.NoError(t, err)
	require.NoError(t, CheckOutputs(plan))

	existing := filepath.Join(dir, "Movie.eng.ac3")
	require.NoError(t, os.WriteFile(existing, nil, 0o644))
	err = CheckOutputs(plan)
	requireRejected(t, err, existing)
}

func TestCheckOutputs_DuplicateSidecars(t *testing.T) {
	cfg := defaultCfg()
	cfg.OutputDir = t.TempDir()
	plan, err := BuildPlan(cfg, mkv(
		video(0, "h264"),
		subtitle(1, "hdmv_pgs_subtitle", "eng", ""),
		subtitle(2, "hdmv_pgs_subtitle", "eng", ""),
	), "/in/M.mkv")
	require.NoError(t, err)

	requireRejected(t, CheckOutputs(plan), "two streams")
}

func TestRejectErr(t *testing.T) {
	assert.NoError(t, RejectErr(nil))

	base := errors.New("boom")
	err := RejectErr(base)
	assert.True(t, errors.Is(err, ErrCannotProcess))
	assert.True(t, errors.Is(err, base))

	orig := Reject("x")
	assert.Same(t, orig, RejectErr(orig))
}
