package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderError(t *testing.T) {
	cause := errors.New("timed out")
	err := fmt.Errorf("op: %w", &ProviderError{Kind: ContentVideo, Err: cause})

	assert.ErrorIs(t, err, ErrProviderFailed)
	assert.ErrorIs(t, err, cause)

	var pe *ProviderError
	assert.ErrorAs(t, err, &pe)
	assert.Equal(t, "Video generation failed: timed out", pe.Error())
	assert.Equal(t, "Image generation failed: x", (&ProviderError{Kind: ContentImage, Err: errors.New("x")}).Error())
}

func TestProviderError_StripsOperationPrefixes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "вложенные op",
			err:  fmt.Errorf("videogen.Generate: %w", fmt.Errorf("videogen.poll: %w", errors.New("context deadline exceeded"))),
			want: "Video generation failed: context deadline exceeded",
		},
		{
			name: "причина после sentinel сохраняется",
			err:  fmt.Errorf("videogen.Generate: %w", fmt.Errorf("%w: %s", errors.New("video generation failed"), "nsfw")),
			want: "Video generation failed: video generation failed: nsfw",
		},
		{
			name: "лист без обёрток",
			err:  errors.New("provider returned 500: overloaded"),
			want: "Video generation failed: provider returned 500: overloaded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, (&ProviderError{Kind: ContentVideo, Err: tt.err}).Error())
		})
	}
}
