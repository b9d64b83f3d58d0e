// Package profile composes the overlays of several option groups into one
// profile document.
//
// Groups compile independently and concurrently; their results are merged in
// catalog order. When two groups set the same preference the later group
// wins and the replacement is recorded in Profile.Overrides. Add-on lists
// are concatenated in the same order.
//
//	cat, _ := catalog.Default()
//	c := profile.NewComposer(cat, profile.WithVersion(version))
//	p, err := c.Compose(ctx, map[string]option.Submission{
//	    "tracking": {"dnt": true},
//	    "privacy":  {"all_cookies": true},
//	})
//
// Composition is all-or-nothing: if any group fails validation, Compose
// returns an ErrCodeInvalidRequest error naming every failing group and no
// profile. Use Validate to get a per-group report instead.
//
// Profile.ID is a name-based UUID over the merged preferences and add-ons,
// so equal results carry equal IDs.
//
// # Metrics
//
//   - profilemaker_compose_duration_seconds
//   - profilemaker_compose_total{status}
//   - profilemaker_compose_overrides_total
//   - profilemaker_group_compile_total{group,result}
//   - profilemaker_validation_faults_total{reason}
//
// WriteMetrics exports them in the Prometheus textfile format.
package profile
