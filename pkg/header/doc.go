// Package header provides the common header embedded in every document
// profilemaker prints: profiles, group catalogs and validation reports.
//
//	kind: Profile
//	apiVersion: profilemaker.ffprofile.io/v1alpha1
//	metadata:
//	  version: v1.0.0
package header
