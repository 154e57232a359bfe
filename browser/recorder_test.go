package browser

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/chromedp/cdproto/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFrameAppendsDecodedData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "video"+videoExtension)
	f, err := os.Create(path)
	require.NoError(t, err)
	r := &recorder{path: path, file: f}

	for _, data := range []string{"frame1", "frame2"} {
		frame := &page.EventScreencastFrame{Data: base64.StdEncoding.EncodeToString([]byte(data))}
		require.NoError(t, r.writeFrame(frame))
	}
	require.NoError(t, f.Close())

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "frame1frame2", string(written))
}

func TestWriteFrameRejectsInvalidData(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "video"+videoExtension))
	require.NoError(t, err)
	defer f.Close()
	r := &recorder{file: f}

	assert.Error(t, r.writeFrame(&page.EventScreencastFrame{Data: "not base64!"}))

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
}
