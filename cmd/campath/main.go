// campath writes an orbit camera path for evaluation mode: the camera circles
// the origin at a fixed radius and height, always facing the centre.
//
// Usage:
//
//	go run ./cmd/campath [output.yaml] [frames] [radius] [height]
package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/renderengine/internal/data"
)

func main() {
	outputPath := filepath.Join("data", "campath", "orbit.yaml")
	frames, radius, height := 600, float32(8), float32(2)

	args := os.Args[1:]
	if len(args) >= 1 {
		outputPath = args[0]
	}
	var err error
	if len(args) >= 2 {
		if frames, err = strconv.Atoi(args[1]); err != nil || frames < 1 {
			fmt.Fprintf(os.Stderr, "bad frame count %q\n", args[1])
			os.Exit(1)
		}
	}
	if len(args) >= 3 {
		if radius, err = parseFloat(args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "bad radius %q: %v\n", args[2], err)
			os.Exit(1)
		}
	}
	if len(args) >= 4 {
		if height, err = parseFloat(args[3]); err != nil {
			fmt.Fprintf(os.Stderr, "bad height %q: %v\n", args[3], err)
			os.Exit(1)
		}
	}

	out := data.CameraPathFile{
		Name:  fmt.Sprintf("orbit-r%g-h%g", radius, height),
		Poses: orbit(frames, radius, height),
	}
	raw, err := yaml.Marshal(&out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error marshalling YAML: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output directory: %v\n", err)
		os.Exit(1)
	}
	header := "# Orbit camera path - generated by cmd/campath\n\n"
	if err := os.WriteFile(outputPath, append([]byte(header), raw...), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outputPath, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d poses to %s\n", len(out.Poses), outputPath)
}

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	return float32(f), err
}

// orbit returns frames poses evenly spaced on one full turn. A camera looks
// down -z, so yaw θ faces the origin from (r sin θ, h, r cos θ).
func orbit(frames int, radius, height float32) []data.PoseEntry {
	pitch := -float32(math.Atan2(float64(height), float64(radius)))
	poses := make([]data.PoseEntry, frames)
	for i := range poses {
		theta := 2 * math.Pi * float64(i) / float64(frames)
		pos := [3]float32{
			radius * float32(math.Sin(theta)),
			height,
			radius * float32(math.Cos(theta)),
		}
		rot := [3]float32{float32(theta), pitch, 0}
		poses[i] = data.PoseEntry{Position: &pos, Rotation: &rot}
	}
	return poses
}
