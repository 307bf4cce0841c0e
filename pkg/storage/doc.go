// Package storage keeps include documents and published renders in an
// S3-compatible bucket.
//
// xmltree.StoredInclude reads objects through Get, and "lingua render
// --publish" writes rendered pages with Put:
//
//	s, err := storage.New(storage.Config{
//		Bucket:    "site",
//		AccessKey: key,
//		SecretKey: secret,
//		Endpoint:  "http://localhost:9000",
//		PathStyle: true,
//		Prefix:    "lingua",
//	})
//	err = s.Put(ctx, storage.Key("", "de", "news.html"), bytes.NewReader(page), "text/html; charset=utf-8")
//
// Missing objects are reported as ErrNotFound.
package storage
