// Package report defines the JSON manifest a backup run leaves behind: an
// array of {"file_name", "size"} objects, one per photo that reached the
// cloud, stored as "backup <unix seconds>.json".
package report
