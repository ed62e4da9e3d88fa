package instagram

import "igflash/pkg/payload"

// MediaType is the normalised kind of a post
type MediaType string

const (
	MediaTypePhoto    MediaType = "photo"
	MediaTypeVideo    MediaType = "video"
	MediaTypeCarousel MediaType = "carousel"
	MediaTypeUnknown  MediaType = "unknown"
)

// MediaTypes maps provider type codes to media types. Numeric codes come
// from the v1 API, Graph* names from graph edges.
type MediaTypes map[string]MediaType

// DefaultMediaTypes returns the built-in code table
func DefaultMediaTypes() MediaTypes {
	return MediaTypes{
		"1":            MediaTypePhoto,
		"2":            MediaTypeVideo,
		"8":            MediaTypeCarousel,
		"GraphImage":   MediaTypePhoto,
		"GraphVideo":   MediaTypeVideo,
		"GraphSidecar": MediaTypeCarousel,
	}
}

// With returns a copy of t with overrides applied
func (t MediaTypes) With(overrides map[string]string) MediaTypes {
	out := make(MediaTypes, len(t)+len(overrides))
	for code, mediaType := range t {
		out[code] = mediaType
	}
	for code, mediaType := range overrides {
		out[code] = MediaType(mediaType)
	}
	return out
}

// Normalize maps a type code to a MediaType; unmapped or missing codes are unknown
func (t MediaTypes) Normalize(code payload.Value) MediaType {
	s := code.Str()
	if s == nil {
		return MediaTypeUnknown
	}
	if mediaType, ok := t[*s]; ok {
		return mediaType
	}
	return MediaTypeUnknown
}
