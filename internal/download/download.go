// Package download fetches generated textures in the background.
//
// A Task is started once and completes exactly once with either a decoded
// image or an error. Callers either block on Wait or select on Done.
package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"net/http"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// DefaultMaxBytes caps the response body size when Options.MaxBytes is zero.
const DefaultMaxBytes = 64 << 20

var (
	// ErrPending is returned by Result before the task has completed.
	ErrPending = errors.New("download still in progress")
	// ErrTooLarge is returned when the body exceeds the size cap.
	ErrTooLarge = errors.New("download exceeds size limit")
	// ErrEmptyURL is returned when the task is started without a URL.
	ErrEmptyURL = errors.New("download url is empty")
)

// StatusError reports a non-200 response.
type StatusError struct {
	StatusCode int    // HTTP status code
	Status     string // HTTP status line
	Body       string // Leading part of the response body
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return "download failed: " + e.Status
	}

	return "download failed: " + e.Status + ": " + e.Body
}

// Progress reports transferred bytes. TotalBytes is -1 when unknown.
type Progress struct {
	DownloadedBytes int64
	TotalBytes      int64
}

// Options controls a download.
type Options struct {
	// MaxBytes caps the body size (default is DefaultMaxBytes).
	MaxBytes int64
	// Progress is called from the download goroutine as data arrives.
	Progress func(Progress)
}

// normalize normalizes the Options.
func (o *Options) normalize() Options {
	if o == nil {
		return Options{MaxBytes: DefaultMaxBytes}
	}

	out := *o
	if out.MaxBytes <= 0 {
		out.MaxBytes = DefaultMaxBytes
	}

	return out
}

// Task is a single in-flight texture download.
type Task struct {
	url    string
	done   chan struct{}
	img    image.Image
	format string
	err    error
}

// Start begins downloading url in a new goroutine. A nil client uses http.DefaultClient.
// Cancelling ctx aborts the transfer and completes the task with the context error.
func Start(ctx context.Context, client *http.Client, url string, opt *Options) *Task {
	if client == nil {
		client = http.DefaultClient
	}

	t := &Task{url: url, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.img, t.format, t.err = fetch(ctx, client, url, opt.normalize())
	}()

	return t
}

// URL returns the downloaded address.
func (t *Task) URL() string { return t.url }

// Done is closed when the task has completed.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task completes or ctx is done.
func (t *Task) Wait(ctx context.Context) (image.Image, error) {
	select {
	case <-t.done:
		return t.img, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the completion value, or ErrPending while the task is running.
func (t *Task) Result() (image.Image, error) {
	select {
	case <-t.done:
		return t.img, t.err
	default:
		return nil, ErrPending
	}
}

// Format returns the decoded image format name once the task has succeeded.
func (t *Task) Format() string {
	select {
	case <-t.done:
		return t.format
	default:
		return ""
	}
}

// progressWriter counts bytes written through it.
type progressWriter struct {
	downloaded int64
	total      int64
	report     func(Progress)
}

func (w *progressWriter) Write(p []byte) (int, error) {
	n := len(p)
	w.downloaded += int64(n)
	if w.report != nil {
		w.report(Progress{DownloadedBytes: w.downloaded, TotalBytes: w.total})
	}

	return n, nil
}

// fetch downloads and decodes one image.
func fetch(ctx context.Context, client *http.Client, url string, opt Options) (image.Image, string, error) {
	if strings.TrimSpace(url) == "" {
		return nil, "", ErrEmptyURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, "", &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: strings.TrimSpace(string(b))}
	}
	if resp.ContentLength > opt.MaxBytes {
		return nil, "", fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, resp.ContentLength, opt.MaxBytes)
	}

	if opt.Progress != nil {
		opt.Progress(Progress{DownloadedBytes: 0, TotalBytes: resp.ContentLength})
	}

	var buf bytes.Buffer
	if resp.ContentLength > 0 {
		buf.Grow(int(resp.ContentLength))
	}
	pw := &progressWriter{total: resp.ContentLength, report: opt.Progress}
	n, err := io.Copy(io.MultiWriter(&buf, pw), io.LimitReader(resp.Body, opt.MaxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("download: %w", err)
	}
	if n > opt.MaxBytes {
		return nil, "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, opt.MaxBytes)
	}

	img, format, err := image.Decode(&buf)
	if err != nil {
		return nil, "", fmt.Errorf("decode texture: %w", err)
	}

	return img, format, nil
}
