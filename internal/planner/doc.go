// Package planner is the decision engine: it classifies every stream of a
// probed container into actions (transcode into the mp4, extract to a
// sidecar, or extract into a shared sidecar group) or rejects the file.
//
// Everything here is a pure function of the probe result and the config.
// Nothing touches the filesystem except [CheckOutputs], which runs the
// best-effort existence checks before ffmpeg is invoked.
//
// Files:
//   - errors.go: RejectionError and the ErrCannotProcess sentinel
//   - disposition.go: title-based forced/SDH guessing and Annotations
//   - title.go: the release-tag title cleaner
//   - action.go, collection.go: the Action sum type and its collection
//   - video.go, audio.go, subtitle.go, attachment.go: per-type classifiers
//   - planner.go: BuildPlan, the per-file entry point
package planner
