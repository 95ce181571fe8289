package util

import (
	"fmt"
	"math"
	"time"
)

// Statify converts done bytes, total bytes, and starting time to progress, speed (MiB/s), and ETA string.
// Returns: progress (0.0-1.0), speed in MiB/s, ETA as "HH:MM:SS".
// An unknown total (<= 0) yields zero progress and ETA but still reports speed.
func Statify(done int64, total int64, start time.Time) (float32, float64, string) {
	elapsed := time.Since(start).Seconds()
	var speed float64
	if elapsed > 0 {
		speed = float64(done) / elapsed / float64(MiB)
	}

	if total <= 0 {
		return 0, speed, "00:00:00"
	}

	progress := float32(math.Min(float64(done)/float64(total), 1))

	var eta int
	if speed > 0 {
		eta = int(math.Floor(float64(total-done) / (speed * float64(MiB))))
	}

	return progress, speed, Timeify(eta)
}

// Timeify converts seconds to "HH:MM:SS" format.
func Timeify(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	seconds %= 3600
	minutes := seconds / 60
	seconds %= 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// Sizeify converts bytes to a human-readable string (B, KiB, MiB, GiB, TiB).
func Sizeify(size int64) string {
	switch {
	case size >= int64(TiB):
		return fmt.Sprintf("%.2f TiB", float64(size)/float64(TiB))
	case size >= int64(GiB):
		return fmt.Sprintf("%.2f GiB", float64(size)/float64(GiB))
	case size >= int64(MiB):
		return fmt.Sprintf("%.2f MiB", float64(size)/float64(MiB))
	case size >= int64(KiB):
		return fmt.Sprintf("%.2f KiB", float64(size)/float64(KiB))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// TransferInfo renders the progress line shown while downloading, e.g.
// "1.50 MiB / 3.00 MiB at 0.75 MiB/s (ETA: 00:00:02)".
func TransferInfo(done, total int64, start time.Time) string {
	_, speed, eta := Statify(done, total, start)
	if total <= 0 {
		return fmt.Sprintf("%s at %.2f MiB/s", Sizeify(done), speed)
	}
	return fmt.Sprintf("%s / %s at %.2f MiB/s (ETA: %s)", Sizeify(done), Sizeify(total), speed, eta)
}
