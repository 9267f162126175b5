// Package models contains data structures for the application's domain models.
package models

// MediaType identifies the source domain of a collection or item. A collection's
// type is advisory only; items carry their own type independently.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
	MediaTypeMusic MediaType = "music"
	MediaTypeGame  MediaType = "game"
	MediaTypeAnime MediaType = "anime"
	MediaTypeManga MediaType = "manga"
	MediaTypeBook  MediaType = "book"
	MediaTypeArt   MediaType = "art"
	MediaTypeMixed MediaType = "mixed"
)

// ValidMediaType reports whether t is one of the known media types.
func ValidMediaType(t MediaType) bool {
	switch t {
	case MediaTypeMovie, MediaTypeTV, MediaTypeMusic, MediaTypeGame,
		MediaTypeAnime, MediaTypeManga, MediaTypeBook, MediaTypeArt, MediaTypeMixed:
		return true
	}
	return false
}

// Texture is the profile background texture setting.
type Texture string

const (
	TextureNone  Texture = "none"
	TextureGrain Texture = "grain"
	TexturePaper Texture = "paper"
	TextureGlass Texture = "glass"
)

// ValidTexture reports whether t is a known background texture.
func ValidTexture(t Texture) bool {
	switch t {
	case TextureNone, TextureGrain, TexturePaper, TextureGlass:
		return true
	}
	return false
}

// SwipeDirection tags a swipe action. The meaning of a direction (right = like,
// left = ignore, down = skip) is interpreted at the save boundary, not here.
type SwipeDirection string

const (
	SwipeLeft  SwipeDirection = "left"
	SwipeRight SwipeDirection = "right"
	SwipeDown  SwipeDirection = "down"
)

// ValidSwipeDirection reports whether d is a known swipe direction.
func ValidSwipeDirection(d SwipeDirection) bool {
	return d == SwipeLeft || d == SwipeRight || d == SwipeDown
}

// SearchResult is the unified shape every metadata provider converts into.
// Metadata carries provider-specific fields (studio, developer, author, ...)
// as a loose key-value map; the server never interprets its contents.
type SearchResult struct {
	ExternalID string         `json:"externalId"`
	Type       MediaType      `json:"type"`
	Title      string         `json:"title"`
	Image      *string        `json:"image"`
	Year       *string        `json:"year"`
	Rating     *float64       `json:"rating"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}
