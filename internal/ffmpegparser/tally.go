package ffmpegparser

import (
	"regexp"
	"strconv"
)

// tallyPattern recognises ffmpeg's terminal summary line, e.g.
// "video:1024kB audio:128kB subtitle:0kB other streams:0kB global
// headers:0kB muxing overhead: 0.500000%". Grounded on
// mantonx-viewra's monitorProgress regex approach for extracting
// numeric fields out of ffmpeg's free-form stderr summary text.
var tallyPattern = regexp.MustCompile(`video:\s*([\d.]+)\s*kB\s+audio:\s*([\d.]+)\s*kB`)

func parseTally(line string) (FinalResult, bool) {
	m := tallyPattern.FindStringSubmatch(line)
	if m == nil {
		return FinalResult{}, false
	}
	video, _ := strconv.ParseFloat(m[1], 64)
	audio, _ := strconv.ParseFloat(m[2], 64)
	return FinalResult{VideoKB: video, AudioKB: audio, Raw: line}, true
}
