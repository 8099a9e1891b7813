package leave

import "testing"

func TestCalculateDays(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		days    int
		wantErr bool
	}{
		{"single day", "2024-01-01", "2024-01-01", 1, false},
		{"five days", "2024-01-01", "2024-01-05", 5, false},
		{"across month", "2024-01-30", "2024-02-02", 4, false},
		{"end before start", "2024-01-05", "2024-01-01", 0, true},
		{"bad start", "January 1", "2024-01-05", 0, true},
		{"bad end", "2024-01-01", "someday", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			days, err := CalculateDays(tc.start, tc.end)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if days != tc.days {
				t.Fatalf("expected %d days, got %d", tc.days, days)
			}
		})
	}
}

func TestDeductBalance(t *testing.T) {
	if got := DeductBalance(10, 5); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := DeductBalance(3, 5); got != 0 {
		t.Fatalf("expected floor at 0, got %d", got)
	}
	if got := DeductBalance(5, 5); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
