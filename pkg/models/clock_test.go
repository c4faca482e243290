package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:30", 0, true},
		{"09-30", 0, true},
		{"09:30x", 0, true},
		{"", 0, true},
		{"noon", 0, true},
		{"+1:30", 0, true},
		{"-0:05", 0, true},
		{"1+:30", 0, true},
		{"09:-5", 0, true},
		{" 9:30", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error %v", tc.in, err)
			continue
		}
		if int(got) != tc.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestClockString_RoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "07:05", "12:30", "23:59"} {
		c, err := ParseClock(s)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", s, err)
		}
		if c.String() != s {
			t.Errorf("round trip %q got %q", s, c.String())
		}
	}
}

func TestClockTime_JSONRoundTrip(t *testing.T) {
	// Responses must serialize the same "HH:MM" form that requests accept,
	// so a client can read blocks and commit them back unmodified.
	b := ShiftBlock{
		Date:  "2024-01-01",
		Start: 540,
		End:   660,
		Assignments: []Assignment{
			{StaffID: "alice", Rooms: []string{"GH 101"}},
		},
	}
	raw, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"start":"09:00"`) || !strings.Contains(string(raw), `"end":"11:00"`) {
		t.Errorf("expected HH:MM times on the wire, got %s", raw)
	}

	var back ShiftBlock
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Start != b.Start || back.End != b.End {
		t.Errorf("round trip changed times: %s-%s", back.Start, back.End)
	}

	var rejected ShiftBlock
	if err := json.Unmarshal([]byte(`{"date":"2024-01-01","start":540,"end":660}`), &rejected); err == nil {
		t.Error("raw minute integers must be rejected on input")
	}
}

func TestValidDate(t *testing.T) {
	valid := []string{"2024-01-01", "1999-12-31"}
	invalid := []string{"2024-1-1", "2024/01/01", "20240101", "", "2024-01-01T00"}

	for _, d := range valid {
		if !ValidDate(d) {
			t.Errorf("ValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if ValidDate(d) {
			t.Errorf("ValidDate(%q) = true, want false", d)
		}
	}
}
