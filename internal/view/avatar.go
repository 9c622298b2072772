// Package view shapes repository records into the data handed to the
// template renderer.
package view

import "strings"

// DefaultAvatarURL is served for any user identity without an avatar.
const DefaultAvatarURL = "/default.jpg"

// legacyAvatarPrefix is the obsolete static mount some stored avatar paths
// still carry. Stripping it makes the URL match the current static root.
const legacyAvatarPrefix = "/public/"

// NormalizeAvatarURL applies the two avatar normalizations used everywhere a
// user identity is projected into a view: strip the legacy prefix, then
// substitute the default avatar for an empty URL. The function is
// idempotent.
func NormalizeAvatarURL(url string) string {
	if strings.HasPrefix(url, legacyAvatarPrefix) {
		url = "/" + strings.TrimPrefix(url, legacyAvatarPrefix)
	}
	if url == "" {
		return DefaultAvatarURL
	}
	return url
}
