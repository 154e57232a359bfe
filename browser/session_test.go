package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsXPath(t *testing.T) {
	assert.True(t, isXPath(`//button[contains(., "Login")]`))
	assert.True(t, isXPath(`(//div[@role="alert"])[1]`))
	assert.False(t, isXPath("#email"))
	assert.False(t, isXPath(`input[aria-label="Email"]`))
	assert.False(t, isXPath("div.q-field__native span"))
}

func TestVideoPathWithoutRecording(t *testing.T) {
	s := &Session{}
	_, err := s.VideoPath()
	assert.ErrorIs(t, err, errNotRecording)
}

func TestVideoPathWithRecording(t *testing.T) {
	s := &Session{recorder: &recorder{path: "/tmp/videos/abc.mjpeg"}}
	p, err := s.VideoPath()
	assert.NoError(t, err)
	assert.Equal(t, "/tmp/videos/abc.mjpeg", p)
}
