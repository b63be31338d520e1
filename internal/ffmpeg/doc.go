// Package ffmpeg assembles the single ffmpeg invocation for a FilePlan and
// runs it.
//
// The argument vector has a fixed layout so identical plans always produce
// identical commands:
//
//	<ffmpeg> <global flags> -i <input> -map_metadata 0 -map_chapters 0
//	  -map 0:<video> -c:0 copy
//	  [-map 0:<i> -c:N <codec> ...]...       transcodes, N from 1
//	  -movflags +faststart <output.mp4>
//	  [-map 0:<i> -c:0 copy ... <sidecar>]... one output per extraction
//	  [[-map 0:<i> -c:K copy ...]... <group trailer> <base>.mks]...
//
// Success is judged by exit code alone; there are no retries.
package ffmpeg
