package utils

import (
	"reflect"
	"testing"
)

func TestDecodeDays(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []int
		wantErr bool
	}{
		{name: "empty", raw: "", want: nil},
		{name: "empty json array", raw: "[]", want: nil},
		{name: "canonical json", raw: "[1,3,5]", want: []int{1, 3, 5}},
		{name: "unsorted json with duplicates", raw: "[5, 1, 3, 1]", want: []int{1, 3, 5}},
		{name: "legacy comma separated", raw: "1,3,5", want: []int{1, 3, 5}},
		{name: "legacy with spaces and trailing comma", raw: " 7, 2 ,", want: []int{2, 7}},
		{name: "out of range", raw: "[0,8]", wantErr: true},
		{name: "garbage", raw: "mon;tue", wantErr: true},
		{name: "broken json", raw: "[1,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDays(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeDays(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeDays(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestEncodeDays(t *testing.T) {
	got, err := EncodeDays([]int{5, 1, 3, 3})
	if err != nil {
		t.Fatalf("EncodeDays() error = %v", err)
	}
	if got != "[1,3,5]" {
		t.Errorf("EncodeDays() = %q, want %q", got, "[1,3,5]")
	}

	empty, err := EncodeDays(nil)
	if err != nil || empty != "" {
		t.Errorf("EncodeDays(nil) = %q, %v", empty, err)
	}

	if _, err := EncodeDays([]int{9}); err == nil {
		t.Error("expected error for day 9")
	}
}

func TestIsCanonicalDays(t *testing.T) {
	if !IsCanonicalDays("[1,3,5]") {
		t.Error("[1,3,5] should be canonical")
	}
	if IsCanonicalDays("1,3,5") {
		t.Error("legacy CSV should not be canonical")
	}
	if IsCanonicalDays("[3,1]") {
		t.Error("unsorted array should not be canonical")
	}
}

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{in: "mon,wed,fri", want: []int{1, 3, 5}},
		{in: "Sunday, monday", want: []int{1, 7}},
		{in: "1,7", want: []int{1, 7}},
		{in: "0", wantErr: true},
		{in: "funday", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekdays(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekdays(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseWeekdays(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatWeekdays(t *testing.T) {
	if got := FormatWeekdays([]int{1, 3, 7}); got != "Mon,Wed,Sun" {
		t.Errorf("FormatWeekdays() = %q", got)
	}
}
