package vk

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultBaseURL is the VK API method root
	DefaultBaseURL = "https://api.vk.com/method/"

	// DefaultAPIVersion is sent as the v parameter
	DefaultAPIVersion = "5.199"

	// DefaultAlbumID selects the profile photo album
	DefaultAlbumID = "profile"

	// MethodPhotosGet lists the photos of an album
	MethodPhotosGet = "photos.get"
)

// PhotosFilter selects which photos photos.get returns
type PhotosFilter struct {
	// OwnerID is the user (or negative community) id; required
	OwnerID string
	// AlbumID defaults to DefaultAlbumID
	AlbumID string
	// Count and Offset page through the album; zero means provider default
	Count  int
	Offset int
	// Rev returns photos in anti-chronological order
	Rev      bool
	PhotoIDs []string
	// Extra holds any other photos.get parameter, sent verbatim
	Extra map[string]string
}

// Params encodes the filter as photos.get parameters.
// extended=1 is always set, like counts depend on it. Extra never
// overrides the structured fields.
func (f PhotosFilter) Params() url.Values {
	params := url.Values{}
	for k, v := range f.Extra {
		params.Set(k, v)
	}

	params.Set("owner_id", f.OwnerID)
	albumID := f.AlbumID
	if albumID == "" {
		albumID = DefaultAlbumID
	}
	params.Set("album_id", albumID)
	params.Set("extended", "1")

	if f.Count > 0 {
		params.Set("count", strconv.Itoa(f.Count))
	}
	if f.Offset > 0 {
		params.Set("offset", strconv.Itoa(f.Offset))
	}
	if f.Rev {
		params.Set("rev", "1")
	}
	if len(f.PhotoIDs) > 0 {
		params.Set("photo_ids", strings.Join(f.PhotoIDs, ","))
	}

	return params
}

// MethodURL joins the API root and a method name
func MethodURL(baseURL, method string) string {
	return strings.TrimRight(baseURL, "/") + "/" + method
}
