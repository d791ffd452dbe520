// Package yadisk is a client for the Yandex.Disk REST API (v1).
//
// Every call except the upload itself sends "Authorization: OAuth <token>".
// Error bodies of the form {"error": ..., "description": ...} become
// *errors.Error values of type domain, with the symbolic error kept in
// ProviderCode.
//
// Uploads are two-phase:
//
//	err := client.UploadFile(ctx, data, "VK Photos (2024-05-01)/12.jpg", false)
//
// first asks resources/upload for a one-off link, then sends the bytes to it.
// The status of the second request is mapped by errors.UploadStatusError.
package yadisk
