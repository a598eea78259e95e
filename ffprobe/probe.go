// Package ffprobe provides utilities for extracting metadata from media
// files using the ffprobe command-line tool.
package ffprobe

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Stream represents a media stream (audio, video, subtitle, etc.)
type Stream struct {
	Index         int    `json:"index"`
	CodecName     string `json:"codec_name"`
	CodecType     string `json:"codec_type"`
	CodecLongName string `json:"codec_long_name"`
	Width         int    `json:"width,omitempty"`
	Height        int    `json:"height,omitempty"`
	RFrameRate    string `json:"r_frame_rate,omitempty"`
	SampleRate    string `json:"sample_rate,omitempty"`
	Channels      int    `json:"channels,omitempty"`
	Duration      string `json:"duration,omitempty"`
}

// Format represents the container format information.
type Format struct {
	Filename       string `json:"filename"`
	FormatName     string `json:"format_name"`
	FormatLongName string `json:"format_long_name"`
	Duration       string `json:"duration"`
	Size           string `json:"size"`
	BitRate        string `json:"bit_rate"`
}

// ProbeResult holds the metadata extracted from a media file.
type ProbeResult struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// VideoInfo summarizes the properties of a video file that job construction
// needs: dimensions, frame rate, total duration, and whether the file
// carries an audio track.
type VideoInfo struct {
	Width     int
	Height    int
	FrameRate float64
	Duration  float64
	HasAudio  bool
}

// AspectRatio returns the reduced width:height ratio, e.g. "16:9" for
// 1920x1080.
func (vi VideoInfo) AspectRatio() string {
	return AspectRatio(vi.Width, vi.Height)
}

// GetDuration returns the duration of the media file in seconds.
//
// Returns an error if the duration cannot be parsed.
func (pr *ProbeResult) GetDuration() (float64, error) {
	if pr.Format.Duration == "" {
		return 0, fmt.Errorf("duration not available in format metadata")
	}

	duration, err := strconv.ParseFloat(pr.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration '%s': %w", pr.Format.Duration, err)
	}

	return duration, nil
}

// GetVideoStreams returns all video streams from the media file.
func (pr *ProbeResult) GetVideoStreams() []Stream {
	var videoStreams []Stream
	for _, stream := range pr.Streams {
		if stream.CodecType == "video" {
			videoStreams = append(videoStreams, stream)
		}
	}
	return videoStreams
}

// GetAudioStreams returns all audio streams from the media file.
func (pr *ProbeResult) GetAudioStreams() []Stream {
	var audioStreams []Stream
	for _, stream := range pr.Streams {
		if stream.CodecType == "audio" {
			audioStreams = append(audioStreams, stream)
		}
	}
	return audioStreams
}

// GetVideoInfo extracts dimensions, frame rate and duration from the first
// video stream. Returns an error if the file has no usable video stream.
func (pr *ProbeResult) GetVideoInfo() (VideoInfo, error) {
	streams := pr.GetVideoStreams()
	if len(streams) == 0 {
		return VideoInfo{}, fmt.Errorf("no video streams found")
	}

	primary := streams[0]
	if primary.Width <= 0 || primary.Height <= 0 {
		return VideoInfo{}, fmt.Errorf("video stream has invalid dimensions %dx%d", primary.Width, primary.Height)
	}

	info := VideoInfo{
		Width:     primary.Width,
		Height:    primary.Height,
		FrameRate: ParseFrameRate(primary.RFrameRate),
		HasAudio:  len(pr.GetAudioStreams()) > 0,
	}

	if duration, err := pr.GetDuration(); err == nil {
		info.Duration = duration
	}

	return info, nil
}

// ParseFrameRate normalizes an ffprobe rate string like "25/1" or "30000/1001"
// to a float. Unparseable values fall back to 30.
func ParseFrameRate(rate string) float64 {
	if rate == "" {
		return 30
	}

	if num, den, found := strings.Cut(rate, "/"); found {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 30
		}
		return n / d
	}

	f, err := strconv.ParseFloat(rate, 64)
	if err != nil || f <= 0 {
		return 30
	}
	return f
}

// AspectRatio reduces width and height to their simplest ratio string.
func AspectRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	d := gcd(width, height)
	return fmt.Sprintf("%d:%d", width/d, height/d)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Probe analyzes a media file and extracts its metadata using ffprobe.
//
// The function executes ffprobe with JSON output format and parses the
// result to extract stream and format information.
func Probe(sourcePath string) (*ProbeResult, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("source path cannot be empty")
	}

	// -v quiet: suppress verbose output
	// -print_format json: output in JSON format
	// -show_streams: include stream information
	// -show_format: include format information
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		sourcePath,
	}

	cmd := exec.Command("ffprobe", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w (output: %s)", err, string(output))
	}

	var result ProbeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe JSON output: %w", err)
	}

	return &result, nil
}
