// Package snapshot publishes server-rendered HTML.
//
// DiskStore writes snapshots next to a small JSON metadata file; S3Store
// uploads them to a bucket:
//
//	store, err := snapshot.NewDiskStore("./snapshots")
//	loc, err := store.Publish(ctx, snapshot.NewSnapshot("", "counter", html))
package snapshot
