// Package backup copies the photos of a VK profile to a cloud disk.
//
// An Orchestrator ties three collaborators together: a SourceClient (the VK
// API), a storage.Provider (the cloud disk) and a ReportStore (the local
// report directory). One call to Backup is one run:
//
//	orch := backup.New(vkClient, provider, storage.NewLocalDir("output"),
//		backup.WithReporter(console),
//	)
//	result, err := orch.Backup(ctx, vk.PhotosFilter{OwnerID: "1", Count: 5}, backup.Options{})
//
// Photos are processed one at a time in the order VK returned them. Each is
// named after its like count, with the upload date appended on collision.
// The manifest of photos that reached the disk is written as
// "backup <unix>.json" both locally and into the destination folder.
//
// Only a failed fetch aborts a run. Per-photo failures are counted in the
// Result and logged.
package backup
