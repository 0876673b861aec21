package grade

import (
	"math"
	"regexp"
	"strconv"
)

// AbsenceMark is the sentinel recorded when a student missed a lesson.
// It is the Cyrillic letter Н, not a latin H.
const AbsenceMark = "Н"

var numericMarkRx = regexp.MustCompile(`^[0-9]+$`)

// AttendanceStats summarizes a student's lesson attendance.
type AttendanceStats struct {
	TotalLessons   int     `json:"total"`
	Attended       int     `json:"attended"`
	Missed         int     `json:"missed"`
	AttendanceRate float64 `json:"attendanceRate"` // percent, 2 decimals
}

// MarkStats summarizes a student's activity marks.
type MarkStats struct {
	TotalActivities int      `json:"totalActivities"`
	GoodMarks       int      `json:"goodMarks"` // 4 and 5
	BadMarks        int      `json:"badMarks"`  // 1 to 3
	AvgMark         *float64 `json:"avgMark"`   // nil when no numeric mark exists
}

// ComputeAttendance classifies lesson marks: the absence sentinel counts as
// missed, any other non-empty mark as attended, an empty mark as neither.
func ComputeAttendance(marks []string) AttendanceStats {
	stats := AttendanceStats{TotalLessons: len(marks)}
	for _, m := range marks {
		switch m {
		case AbsenceMark:
			stats.Missed++
		case "":
		default:
			stats.Attended++
		}
	}
	if stats.TotalLessons > 0 {
		stats.AttendanceRate = round2(float64(stats.Attended) / float64(stats.TotalLessons) * 100)
	}
	return stats
}

// ComputeMarkStats counts good (4-5) and bad (1-3) single-digit marks and
// averages every numeric mark. Non-numeric marks still count toward the
// total.
func ComputeMarkStats(marks []string) MarkStats {
	stats := MarkStats{TotalActivities: len(marks)}

	var sum, n int
	for _, m := range marks {
		switch m {
		case "4", "5":
			stats.GoodMarks++
		case "1", "2", "3":
			stats.BadMarks++
		}
		if numericMarkRx.MatchString(m) {
			v, _ := strconv.Atoi(m)
			sum += v
			n++
		}
	}
	if n > 0 {
		avg := round2(float64(sum) / float64(n))
		stats.AvgMark = &avg
	}
	return stats
}

// AverageNumeric averages the numeric marks of a set, 0 when none exist.
func AverageNumeric(marks []string) float64 {
	var sum, n int
	for _, m := range marks {
		if numericMarkRx.MatchString(m) {
			v, _ := strconv.Atoi(m)
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return round2(float64(sum) / float64(n))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
