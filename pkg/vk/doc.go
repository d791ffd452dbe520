// Package vk provides a minimal client for the VK API photo methods.
//
// It covers what a backup needs:
//   - FetchPhotos calls photos.get with extended=1 and returns the items
//   - DownloadPhoto fetches a photo binary with a plain GET
//
// Failures are returned as *errors.Error with service "vk":
//
//	photos, err := client.FetchPhotos(ctx, vk.PhotosFilter{OwnerID: "1"})
//	if errors.Is(err, errors.ErrorTypeDomain) {
//	    // VK rejected the call, err carries error_code and error_msg
//	}
package vk
