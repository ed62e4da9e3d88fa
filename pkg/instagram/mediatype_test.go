package instagram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"igflash/pkg/payload"
)

func TestMediaTypesNormalize(t *testing.T) {
	types := DefaultMediaTypes()

	tests := []struct {
		name string
		code string
		want MediaType
	}{
		{"numeric photo", `1`, MediaTypePhoto},
		{"numeric video", `2`, MediaTypeVideo},
		{"numeric carousel", `8`, MediaTypeCarousel},
		{"string photo code", `"1"`, MediaTypePhoto},
		{"graph image", `"GraphImage"`, MediaTypePhoto},
		{"graph video", `"GraphVideo"`, MediaTypeVideo},
		{"graph sidecar", `"GraphSidecar"`, MediaTypeCarousel},
		{"unrecognised number", `5`, MediaTypeUnknown},
		{"unrecognised name", `"GraphStory"`, MediaTypeUnknown},
		{"null", `null`, MediaTypeUnknown},
		{"object", `{"a": 1}`, MediaTypeUnknown},
		{"bool", `true`, MediaTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, types.Normalize(payload.MustDecode(tt.code)))
		})
	}

	assert.Equal(t, MediaTypeUnknown, types.Normalize(payload.Value{}))
}

func TestMediaTypesWith(t *testing.T) {
	base := DefaultMediaTypes()
	extended := base.With(map[string]string{"GraphStory": "video", "8": "photo"})

	assert.Equal(t, MediaTypeVideo, extended.Normalize(payload.MustDecode(`"GraphStory"`)))
	assert.Equal(t, MediaTypePhoto, extended.Normalize(payload.MustDecode(`8`)))
	assert.Equal(t, MediaTypeCarousel, base.Normalize(payload.MustDecode(`8`)), "base table must not change")
}
