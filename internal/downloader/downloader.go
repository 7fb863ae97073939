package downloader

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

var (
	// ErrInvalidURL is returned when the input is not a YouTube watch link.
	ErrInvalidURL = goerr.New("invalid watch URL")
	// ErrVideoUnavailable is returned when a well-formed link cannot be resolved.
	ErrVideoUnavailable = goerr.New("video unavailable")
)

// Resolver turns a watch URL into a video and downloads one of its streams.
type Resolver interface {
	Resolve(ctx context.Context, url string) (*Video, error)
	Download(ctx context.Context, video *Video, stream StreamDescriptor, outputPath, filename string, obs Observers) (string, error)
}

// Video is a resolved video with its progressive streams ordered by
// ascending resolution.
type Video struct {
	ID       string
	Title    string
	Author   string
	Duration time.Duration
	Streams  []StreamDescriptor

	// source keeps the resolver's own handle for Download.
	source any
}

// NewVideo builds a Video carrying an implementation specific handle.
func NewVideo(id, title string, streams []StreamDescriptor, source any) *Video {
	return &Video{
		ID:      id,
		Title:   title,
		Streams: streams,
		source:  source,
	}
}

// Source returns the handle passed to NewVideo.
func (v *Video) Source() any {
	return v.source
}

// Highest returns the stream with the highest resolution.
func (v *Video) Highest() (StreamDescriptor, bool) {
	if len(v.Streams) == 0 {
		return StreamDescriptor{}, false
	}
	return v.Streams[len(v.Streams)-1], true
}

// ByResolution returns the stream whose label equals resolution exactly.
func (v *Video) ByResolution(resolution string) (StreamDescriptor, bool) {
	for _, s := range v.Streams {
		if s.Resolution == resolution {
			return s, true
		}
	}
	return StreamDescriptor{}, false
}

// Resolutions lists the stream labels in ascending order.
func (v *Video) Resolutions() []string {
	result := make([]string, 0, len(v.Streams))
	for _, s := range v.Streams {
		result = append(result, s.Resolution)
	}
	return result
}

// StreamDescriptor describes a progressive (audio+video) stream.
type StreamDescriptor struct {
	Resolution string
	Filesize   int64
	Title      string
	MimeType   string
	Itag       int
	Height     int
}

// DefaultFilename is the title made filesystem safe plus the extension
// matching the stream's MIME type.
func (s StreamDescriptor) DefaultFilename() string {
	return SafeFilename(s.Title) + "." + ExtFromMime(s.MimeType)
}

// Observers receive download events. All are called on the goroutine that
// called Download. OnStart gets the byte size reported by the server, or 0
// when it is unknown, before the first OnChunk.
type Observers struct {
	OnStart    func(total int64)
	OnChunk    func(n int)
	OnComplete func(path string)
}

func (o Observers) start(total int64) {
	if o.OnStart != nil {
		o.OnStart(total)
	}
}

func (o Observers) chunk(n int) {
	if o.OnChunk != nil {
		o.OnChunk(n)
	}
}

func (o Observers) complete(path string) {
	if o.OnComplete != nil {
		o.OnComplete(path)
	}
}
