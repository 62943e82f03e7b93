// Package oci publishes exported recipe and package metadata to
// OCI-compliant registries using ORAS (OCI Registry As Storage).
//
// Exports are packed as OCI 1.1 artifacts with the media type
// "application/vnd.crucible.recipe". Consumers that do not understand the
// type should treat the artifact as a non-executable blob. Authentication
// uses the standard Docker credential store (~/.docker/config.json).
package oci
