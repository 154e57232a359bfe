package browser

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
)

const (
	screencastQuality = 60
	frameBufferSize   = 32
	videoExtension    = ".mjpeg"
)

// recorder writes the frames of a page screencast into one Motion JPEG file.
type recorder struct {
	path   string
	file   *os.File
	frames chan *page.EventScreencastFrame
	done   chan struct{}
	wg     sync.WaitGroup
	err    error
}

func startRecording(ctx context.Context, dir string, width, height int) (*recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, uuid.NewString()+videoExtension)
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	r := &recorder{
		path:   path,
		file:   f,
		frames: make(chan *page.EventScreencastFrame, frameBufferSize),
		done:   make(chan struct{}),
	}

	// Chrome sends the next frame only after the previous one was acknowledged. Listeners
	// must not block, so the frames are handed off to a single writer goroutine.
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		frame, ok := ev.(*page.EventScreencastFrame)
		if !ok {
			return
		}
		select {
		case <-r.done:
		case r.frames <- frame:
		default:
			go ack(ctx, frame.SessionID)
		}
	})
	r.wg.Add(1)
	go r.writeFrames(ctx)

	start := page.StartScreencast().
		WithFormat("jpeg").
		WithQuality(screencastQuality).
		WithMaxWidth(int64(width)).
		WithMaxHeight(int64(height))
	if err := chromedp.Run(ctx, start); err != nil {
		close(r.done)
		r.wg.Wait()
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}
	return r, nil
}

func (r *recorder) writeFrames(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-r.done:
			return
		case <-ctx.Done():
			return
		case frame := <-r.frames:
			if err := r.writeFrame(frame); err != nil && r.err == nil {
				r.err = err
			}
			ack(ctx, frame.SessionID)
		}
	}
}

func (r *recorder) writeFrame(frame *page.EventScreencastFrame) error {
	data, err := base64.StdEncoding.DecodeString(frame.Data)
	if err != nil {
		return fmt.Errorf("invalid screencast frame: %w", err)
	}
	_, err = r.file.Write(data)
	return err
}

// stop ends the screencast and closes the video file. Frames that arrive after this are
// dropped.
func (r *recorder) stop(ctx context.Context) error {
	stopErr := chromedp.Run(ctx, page.StopScreencast())
	close(r.done)
	r.wg.Wait()
	closeErr := r.file.Close()
	if stopErr != nil && errors.Is(ctx.Err(), context.Canceled) {
		// the browser is already gone, which ends the screencast anyway
		stopErr = nil
	}
	return errors.Join(stopErr, r.err, closeErr)
}

func ack(ctx context.Context, sessionID int64) {
	_ = chromedp.Run(ctx, page.ScreencastFrameAck(sessionID))
}
