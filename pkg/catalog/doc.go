// Package catalog holds the declared option groups of profilemaker.
//
// The built-in catalog is embedded in the binary (data/index.yaml lists the
// group files in merge order) and parsed once on first use:
//
//	cat, err := catalog.Default()
//	g, ok := cat.Group("tracking")
//	overlay, addons, err := option.Compile(g, option.Submission{"dnt": true})
//
// Groups, in merge order:
//
//   - annoyances: first-run popups and warnings
//   - firefox_tracking: data Firefox sends to Mozilla and Google
//   - tracking: features made for (or usable for) website tracking
//   - privacy: cookies, referer, user agent, storage and prefetching
//   - security: WebGL and update behavior
//   - bloatware: bundled features such as Pocket and Hello
//   - addons: extensions added to the profile
//
// Every group is normalized and checked when a catalog is built, so a
// catalog that loads is safe to compile against. Catalogs are immutable and
// may be shared between goroutines.
//
// Custom catalogs can be read with Parse or LoadFile; they use the Document
// shape (kind GroupCatalog, groups inline).
package catalog
