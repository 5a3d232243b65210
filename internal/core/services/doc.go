// Package services implements the application core: the upload/build
// pipeline, the retrieval-augmented answer chain, result normalization
// and the background evaluation loop.
package services
