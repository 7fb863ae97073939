package downloader

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kkdai/youtube/v2"
	"github.com/m-mizutani/gt"
)

func TestParseQualityNum(t *testing.T) {
	tests := []struct {
		quality  string
		expected int
	}{
		{"144p", 144},
		{"360p", 360},
		{"720p", 720},
		{"1080p", 1080},
		{"1440p60", 1440},
		{"2160p", 2160},
		{"invalid", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.quality, func(t *testing.T) {
			result := parseQualityNum(tt.quality)
			if result != tt.expected {
				t.Errorf("parseQualityNum(%q) = %d, want %d", tt.quality, result, tt.expected)
			}
		})
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "extracts ID from youtube.com/watch",
			text:     "https://www.youtube.com/watch?v=YbJOTdZBX1g",
			expected: "YbJOTdZBX1g",
		},
		{
			name:     "extracts ID from youtu.be",
			text:     "https://youtu.be/dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "extracts ID from embed link",
			text:     "https://www.youtube.com/embed/dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "rejects ten character id",
			text:     "https://www.youtube.com/watch?v=YYJbJOTdZB",
			expected: "",
		},
		{
			name:     "rejects another ten character id",
			text:     "https://www.youtube.com/watch?v=YoJO9dZBX1",
			expected: "",
		},
		{
			name:     "returns empty for non-youtube URL",
			text:     "http://bone.example.com/?branch=beef&advertisement=border",
			expected: "",
		},
		{
			name:     "returns empty for query without id",
			text:     "http://www.example.org/?birth=badge",
			expected: "",
		},
		{
			name:     "returns empty for empty string",
			text:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractVideoID(tt.text)
			if result != tt.expected {
				t.Errorf("ExtractVideoID(%q) = %q, want %q",
					tt.text, result, tt.expected)
			}
		})
	}
}

func TestResolveRejectsInvalidURL(t *testing.T) {
	d := NewYouTubeDownloader()

	_, err := d.Resolve(context.Background(), "http://www.example.org/?birth=badge")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, ErrInvalidURL))
}

func TestProgressiveStreams(t *testing.T) {
	video := &youtube.Video{
		ID:    "YbJOTdZBX1g",
		Title: "Test Video",
		Formats: youtube.FormatList{
			{ItagNo: 22, MimeType: `video/mp4; codecs="avc1.64001F, mp4a.40.2"`, QualityLabel: "720p", Height: 720, AudioChannels: 2, ContentLength: 50000},
			{ItagNo: 137, MimeType: `video/mp4; codecs="avc1.640028"`, QualityLabel: "1080p", Height: 1080, ContentLength: 90000},
			{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, QualityLabel: "360p", Height: 360, AudioChannels: 2, ContentLength: 20000},
			{ItagNo: 43, MimeType: `video/webm; codecs="vp8.0, vorbis"`, QualityLabel: "360p", Height: 360, AudioChannels: 2, ContentLength: 19000},
			{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, AudioChannels: 2, ContentLength: 3000},
			{ItagNo: 17, MimeType: `video/3gpp; codecs="mp4v.20.3, mp4a.40.2"`, QualityLabel: "144p", Height: 144, AudioChannels: 1, ContentLength: 5000},
		},
	}

	streams := progressiveStreams(video)

	gt.Equal(t, len(streams), 3)
	gt.Equal(t, streams[0].Resolution, "144p")
	gt.Equal(t, streams[1].Resolution, "360p")
	gt.Equal(t, streams[2].Resolution, "720p")

	// first format for a label wins
	gt.Equal(t, streams[1].Itag, 18)
	gt.Equal(t, streams[1].Filesize, int64(20000))
	gt.Equal(t, streams[2].Title, "Test Video")
}

func TestFindFormat(t *testing.T) {
	formats := youtube.FormatList{
		{ItagNo: 18, QualityLabel: "360p"},
		{ItagNo: 22, QualityLabel: "720p"},
	}

	f := findFormat(formats, 22)
	gt.V(t, f).NotNil()
	gt.Equal(t, f.QualityLabel, "720p")

	gt.Value(t, findFormat(formats, 999)).Nil()
}

func TestCopyChunks(t *testing.T) {
	payload := strings.Repeat("x", 100*1024)

	var dst bytes.Buffer
	var chunks []int
	written, err := copyChunks(context.Background(), &dst, strings.NewReader(payload), func(n int) {
		chunks = append(chunks, n)
	})

	gt.NoError(t, err)
	gt.Equal(t, written, int64(len(payload)))
	gt.Equal(t, dst.String(), payload)

	total := 0
	for _, n := range chunks {
		total += n
	}
	gt.Equal(t, total, len(payload))
	gt.Number(t, len(chunks)).Greater(1)
}

func TestCopyChunksCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var dst bytes.Buffer
	written, err := copyChunks(ctx, &dst, strings.NewReader("data"), func(int) {})

	gt.Error(t, err)
	gt.True(t, errors.Is(err, context.Canceled))
	gt.Equal(t, written, int64(0))
}

func TestDownloadRejectsForeignVideo(t *testing.T) {
	d := NewYouTubeDownloader()
	video := NewVideo("id", "title", nil, "not a youtube video")

	_, err := d.Download(context.Background(), video, StreamDescriptor{Itag: 18}, t.TempDir(), "out.mp4", Observers{})
	gt.Error(t, err)
}

type failingTransport struct {
	calls int
}

func (f *failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	f.calls++
	return nil, errors.New("connection refused")
}

func TestResolveUnreachableVideo(t *testing.T) {
	transport := &failingTransport{}
	d := NewYouTubeDownloader(WithHTTPClient(&http.Client{Transport: transport}))

	_, err := d.Resolve(context.Background(), "https://www.youtube.com/watch?v=YbJOTdZBX1g")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, ErrVideoUnavailable))
	gt.Number(t, transport.calls).Greater(0)
}

func TestResolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := NewYouTubeDownloader(WithHTTPClient(&http.Client{Transport: &failingTransport{}}))

	_, err := d.Resolve(ctx, "https://www.youtube.com/watch?v=YbJOTdZBX1g")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, context.Canceled))
	gt.True(t, !errors.Is(err, ErrVideoUnavailable))
}

func TestWriteStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.mp4")

	var completed []string
	var contentAtComplete string
	var chunked int
	obs := Observers{
		OnChunk: func(n int) { chunked += n },
		OnComplete: func(p string) {
			completed = append(completed, p)
			raw, err := os.ReadFile(p)
			gt.NoError(t, err)
			contentAtComplete = string(raw)
		},
	}

	gt.NoError(t, writeStream(context.Background(), path, strings.NewReader("first download"), obs))
	gt.Equal(t, completed, []string{path})
	gt.Equal(t, contentAtComplete, "first download")
	gt.Equal(t, chunked, len("first download"))

	// a second, shorter write replaces the file
	gt.NoError(t, writeStream(context.Background(), path, strings.NewReader("again"), obs))
	raw, err := os.ReadFile(path)
	gt.NoError(t, err)
	gt.Equal(t, string(raw), "again")
	gt.Equal(t, len(completed), 2)
}

func TestWriteStreamFailureSkipsCompletion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := writeStream(ctx, filepath.Join(t.TempDir(), "out.mp4"), strings.NewReader("data"), Observers{
		OnComplete: func(string) { called = true },
	})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, context.Canceled))
	gt.True(t, !called)
}

func TestDownloadStreamFailureLeavesNoDirectory(t *testing.T) {
	d := NewYouTubeDownloader(WithHTTPClient(&http.Client{Transport: &failingTransport{}}))
	source := &youtube.Video{
		ID:    "YbJOTdZBX1g",
		Title: "title",
		Formats: youtube.FormatList{
			{ItagNo: 18, URL: "https://rr1---sn.googlevideo.com/videoplayback?itag=18", QualityLabel: "360p", Height: 360, AudioChannels: 2},
		},
	}
	video := NewVideo(source.ID, source.Title, progressiveStreams(source), source)
	outputPath := filepath.Join(t.TempDir(), "videos")

	_, err := d.Download(context.Background(), video, video.Streams[0], outputPath, "out.mp4", Observers{})
	gt.Error(t, err)

	_, statErr := os.Stat(outputPath)
	gt.True(t, os.IsNotExist(statErr))
}
