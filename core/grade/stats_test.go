package grade

import "testing"

func TestComputeAttendance(t *testing.T) {
	tests := []struct {
		name  string
		marks []string
		want  AttendanceStats
	}{
		{
			name:  "half missed",
			marks: []string{"5", "Н", "3", "Н"},
			want:  AttendanceStats{TotalLessons: 4, Attended: 2, Missed: 2, AttendanceRate: 50},
		},
		{
			name:  "all attended",
			marks: []string{"5", "4", "+"},
			want:  AttendanceStats{TotalLessons: 3, Attended: 3, Missed: 0, AttendanceRate: 100},
		},
		{
			name:  "empty marks count as neither",
			marks: []string{"", "Н", "5"},
			want:  AttendanceStats{TotalLessons: 3, Attended: 1, Missed: 1, AttendanceRate: 33.33},
		},
		{
			name:  "latin H is not an absence",
			marks: []string{"H"},
			want:  AttendanceStats{TotalLessons: 1, Attended: 1, Missed: 0, AttendanceRate: 100},
		},
		{
			name:  "no lessons",
			marks: nil,
			want:  AttendanceStats{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeAttendance(tt.marks); got != tt.want {
				t.Errorf("ComputeAttendance() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeMarkStats(t *testing.T) {
	tests := []struct {
		name    string
		marks   []string
		want    MarkStats
		wantAvg *float64
	}{
		{
			name:    "non-numeric marks count toward total only",
			marks:   []string{"5", "2", "X", "4"},
			want:    MarkStats{TotalActivities: 4, GoodMarks: 2, BadMarks: 1},
			wantAvg: f64(3.67),
		},
		{
			name:    "all bad",
			marks:   []string{"1", "2", "3"},
			want:    MarkStats{TotalActivities: 3, GoodMarks: 0, BadMarks: 3},
			wantAvg: f64(2),
		},
		{
			name:    "multi-digit marks are numeric but neither good nor bad",
			marks:   []string{"10", "5"},
			want:    MarkStats{TotalActivities: 2, GoodMarks: 1, BadMarks: 0},
			wantAvg: f64(7.5),
		},
		{
			name:  "no numeric marks",
			marks: []string{"+", "зачёт"},
			want:  MarkStats{TotalActivities: 2},
		},
		{
			name:  "empty",
			marks: nil,
			want:  MarkStats{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeMarkStats(tt.marks)
			if got.TotalActivities != tt.want.TotalActivities ||
				got.GoodMarks != tt.want.GoodMarks ||
				got.BadMarks != tt.want.BadMarks {
				t.Errorf("ComputeMarkStats() = %+v, want %+v", got, tt.want)
			}
			switch {
			case tt.wantAvg == nil && got.AvgMark != nil:
				t.Errorf("AvgMark = %v, want nil", *got.AvgMark)
			case tt.wantAvg != nil && got.AvgMark == nil:
				t.Errorf("AvgMark = nil, want %v", *tt.wantAvg)
			case tt.wantAvg != nil && *got.AvgMark != *tt.wantAvg:
				t.Errorf("AvgMark = %v, want %v", *got.AvgMark, *tt.wantAvg)
			}
		})
	}
}

func TestAverageNumeric(t *testing.T) {
	tests := []struct {
		name  string
		marks []string
		want  float64
	}{
		{name: "mixed", marks: []string{"5", "Н", "4", "+"}, want: 4.5},
		{name: "rounded", marks: []string{"5", "4", "4"}, want: 4.33},
		{name: "none numeric", marks: []string{"Н", "+"}, want: 0},
		{name: "empty", marks: nil, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AverageNumeric(tt.marks); got != tt.want {
				t.Errorf("AverageNumeric() = %v, want %v", got, tt.want)
			}
		})
	}
}

func f64(v float64) *float64 { return &v }
