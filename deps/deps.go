package deps

import (
	"fmt"
	"os/exec"
)

const (
	FfmpegInstallURL = "https://ffmpeg.org/download.html"
	MpvInstallURL    = "https://mpv.io/installation/"
)

// lookPath is swapped out in tests.
var lookPath = exec.LookPath

// Dependency describes an external binary vidtrim shells out to.
type Dependency struct {
	Name       string
	InstallURL string
	// Optional dependencies only disable a feature when missing.
	Optional bool
}

// Known lists every external binary in the order doctor reports them.
var Known = []Dependency{
	{Name: "ffmpeg", InstallURL: FfmpegInstallURL},
	{Name: "ffprobe", InstallURL: FfmpegInstallURL},
	{Name: "mpv", InstallURL: MpvInstallURL, Optional: true},
}

// DependencyError contains information about a missing dependency
type DependencyError struct {
	Name       string
	InstallURL string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s not found. Install from: %s", e.Name, e.InstallURL)
}

// Check checks if the named binary is installed and available in PATH
func Check(d Dependency) error {
	if _, err := lookPath(d.Name); err != nil {
		return &DependencyError{
			Name:       d.Name,
			InstallURL: d.InstallURL,
		}
	}
	return nil
}

// CheckFfmpeg checks if ffmpeg is installed and available in PATH
func CheckFfmpeg() error {
	return Check(Known[0])
}

// CheckFfprobe checks if ffprobe is installed and available in PATH
func CheckFfprobe() error {
	return Check(Known[1])
}

// CheckMpv checks if mpv is installed and available in PATH
func CheckMpv() error {
	return Check(Known[2])
}

// Result is the outcome of checking one dependency.
type Result struct {
	Dependency
	Err error
}

// CheckAll checks every known dependency.
func CheckAll() []Result {
	results := make([]Result, 0, len(Known))
	for _, d := range Known {
		results = append(results, Result{Dependency: d, Err: Check(d)})
	}
	return results
}

// MissingRequired reports whether any non-optional dependency failed.
func MissingRequired(results []Result) bool {
	for _, r := range results {
		if r.Err != nil && !r.Optional {
			return true
		}
	}
	return false
}
