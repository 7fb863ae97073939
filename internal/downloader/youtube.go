package downloader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/kkdai/youtube/v2"
	"github.com/m-mizutani/goerr/v2"
)

var watchURLPattern = regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11}).*`)

// ExtractVideoID returns the 11 character video id of a watch link, or an
// empty string when the text does not look like one.
func ExtractVideoID(text string) string {
	matches := watchURLPattern.FindStringSubmatch(text)
	if len(matches) > 1 {
		return matches[1]
	}
	return ""
}

// YouTubeDownloader resolves and downloads videos with kkdai/youtube.
type YouTubeDownloader struct {
	client youtube.Client
	logger *slog.Logger
}

// Option configures a YouTubeDownloader.
type Option func(*YouTubeDownloader)

// WithHTTPClient sets the HTTP client used for both metadata and media.
func WithHTTPClient(c *http.Client) Option {
	return func(d *YouTubeDownloader) {
		d.client.HTTPClient = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *YouTubeDownloader) {
		d.logger = l
	}
}

func NewYouTubeDownloader(opts ...Option) *YouTubeDownloader {
	d := &YouTubeDownloader{
		client: youtube.Client{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *YouTubeDownloader) Resolve(ctx context.Context, url string) (*Video, error) {
	videoID := ExtractVideoID(url)
	if videoID == "" {
		return nil, goerr.Wrap(ErrInvalidURL, "no video id in URL", goerr.V("url", url))
	}

	video, err := d.client.GetVideoContext(ctx, videoID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, goerr.Wrap(ctxErr, "resolve interrupted", goerr.V("video_id", videoID))
		}
		d.logger.Debug("failed to get video info",
			slog.String("video_id", videoID),
			slog.Any("error", err),
		)
		return nil, goerr.Wrap(ErrVideoUnavailable, "failed to get video info",
			goerr.V("url", url),
			goerr.V("video_id", videoID),
			goerr.V("cause", err.Error()),
		)
	}

	result := NewVideo(video.ID, video.Title, progressiveStreams(video), video)
	result.Author = video.Author
	result.Duration = video.Duration
	return result, nil
}

func (d *YouTubeDownloader) Download(ctx context.Context, video *Video, stream StreamDescriptor, outputPath, filename string, obs Observers) (string, error) {
	source, ok := video.Source().(*youtube.Video)
	if !ok {
		return "", goerr.New("video was not resolved by this downloader", goerr.V("video_id", video.ID))
	}

	format := findFormat(source.Formats, stream.Itag)
	if format == nil {
		return "", goerr.New("format not found", goerr.V("itag", stream.Itag))
	}

	if filename == "" {
		filename = stream.DefaultFilename()
	}
	if outputPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", goerr.Wrap(err, "failed to get working directory")
		}
		outputPath = wd
	}

	path, err := filepath.Abs(filepath.Join(outputPath, filename))
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve output path", goerr.V("output_path", outputPath))
	}

	src, size, err := d.client.GetStreamContext(ctx, source, format)
	if err != nil {
		return "", goerr.Wrap(err, "failed to get stream", goerr.V("itag", stream.Itag))
	}
	defer src.Close()

	d.logger.Debug("downloading stream",
		slog.String("video_id", video.ID),
		slog.Int("itag", stream.Itag),
		slog.Int64("size", size),
		slog.String("path", path),
	)

	obs.start(size)
	if err := writeStream(ctx, path, src, obs); err != nil {
		return "", err
	}
	return path, nil
}

// writeStream creates or truncates path, copies src into it and reports
// completion once the file is closed.
func writeStream(ctx context.Context, path string, src io.Reader, obs Observers) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create output directory", goerr.V("dir", filepath.Dir(path)))
	}

	file, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(err, "failed to create output file", goerr.V("path", path))
	}
	defer file.Close()

	written, err := copyChunks(ctx, file, src, obs.chunk)
	if err != nil {
		return goerr.Wrap(err, "failed to download video", goerr.V("path", path), goerr.V("written", written))
	}
	if err := file.Close(); err != nil {
		return goerr.Wrap(err, "failed to close output file", goerr.V("path", path))
	}

	obs.complete(path)
	return nil
}

// progressiveStreams keeps formats carrying both audio and video, one per
// quality label, ordered by ascending resolution.
func progressiveStreams(video *youtube.Video) []StreamDescriptor {
	seen := make(map[string]bool)
	var result []StreamDescriptor

	for _, f := range video.Formats.WithAudioChannels() {
		if f.Height == 0 || f.QualityLabel == "" {
			continue
		}
		if seen[f.QualityLabel] {
			continue
		}
		seen[f.QualityLabel] = true

		result = append(result, StreamDescriptor{
			Resolution: f.QualityLabel,
			Filesize:   f.ContentLength,
			Title:      video.Title,
			MimeType:   f.MimeType,
			Itag:       f.ItagNo,
			Height:     f.Height,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return parseQualityNum(result[i].Resolution) < parseQualityNum(result[j].Resolution)
	})

	return result
}

func findFormat(formats youtube.FormatList, itag int) *youtube.Format {
	for i := range formats {
		if formats[i].ItagNo == itag {
			return &formats[i]
		}
	}
	return nil
}

func parseQualityNum(quality string) int {
	var num int
	fmt.Sscanf(quality, "%dp", &num)
	return num
}

// chunkWriter reports every write to onChunk.
type chunkWriter struct {
	w       io.Writer
	onChunk func(n int)
}

func (c *chunkWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if n > 0 {
		c.onChunk(n)
	}
	return n, err
}

// copyChunks copies src into dst, stopping early when ctx is cancelled.
func copyChunks(ctx context.Context, dst io.Writer, src io.Reader, onChunk func(n int)) (int64, error) {
	w := &chunkWriter{w: dst, onChunk: onChunk}
	buf := make([]byte, 32*1024)

	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		nr, rerr := src.Read(buf)
		if nr > 0 {
			nw, werr := w.Write(buf[:nr])
			written += int64(nw)
			if werr != nil {
				return written, werr
			}
			if nw != nr {
				return written, io.ErrShortWrite
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
