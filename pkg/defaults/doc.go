// Package defaults holds the constants shared across profilemaker packages:
// config file discovery, input size limits and composition parallelism.
package defaults
