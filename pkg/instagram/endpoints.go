package instagram

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// PublicBaseURL is the base URL for public Instagram links
	PublicBaseURL = "https://www.instagram.com"

	// PostInfoEndpoint returns a single post by shortcode
	PostInfoEndpoint = "/ig/post_info/"

	// ProfileEndpoint returns a user profile with its first timeline page
	ProfileEndpoint = "/ig/web_profile_info/"

	// PostsEndpoint returns one page of a user's posts
	PostsEndpoint = "/ig/posts_username/"

	// DefaultPostsRequired is the feed size used when the caller does not choose one
	DefaultPostsRequired = 12
)

// PostURL constructs the public link for a post
func PostURL(shortcode string) string {
	if shortcode == "" {
		return ""
	}
	return fmt.Sprintf("%s/p/%s/", PublicBaseURL, shortcode)
}

// ProfileURL constructs the public profile link for a user
func ProfileURL(username string) string {
	if username == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/", PublicBaseURL, username)
}

// IsValidUsername checks if a username is valid according to Instagram rules
func IsValidUsername(username string) bool {
	if username == "" || len(username) > 30 {
		return false
	}

	// Instagram usernames can only contain letters, numbers, periods, and underscores
	for _, char := range username {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '.' || char == '_') {
			return false
		}
	}

	return true
}

// SanitizeUsername accepts "@login", a profile link or a bare login and
// returns the login
func SanitizeUsername(username string) string {
	username = strings.TrimSpace(username)
	if username == "" {
		return ""
	}

	if segments := linkSegments(username); segments != nil {
		username = segments[0]
	}

	username = strings.TrimPrefix(username, "@")
	return strings.TrimRight(username, "/ ")
}

// ShortcodeFromURL accepts a post, reel or tv link, or a bare shortcode, and
// returns the shortcode. It returns "" when input names no post.
func ShortcodeFromURL(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	segments := linkSegments(input)
	if segments == nil {
		return strings.Trim(input, "/")
	}

	for i := 0; i+1 < len(segments); i++ {
		switch segments[i] {
		case "p", "reel", "reels", "tv":
			return segments[i+1]
		}
	}
	return ""
}

// linkSegments returns the non-empty path segments of an instagram.com link,
// or nil when input is not such a link
func linkSegments(input string) []string {
	if !strings.Contains(input, "instagram.com") {
		return nil
	}
	if !strings.Contains(input, "://") {
		input = "https://" + input
	}
	u, err := url.Parse(input)
	if err != nil || !strings.HasSuffix(u.Hostname(), "instagram.com") {
		return nil
	}

	var segments []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return nil
	}
	return segments
}
