package domain

import "testing"

func TestCardStatus(t *testing.T) {
	testCases := []struct {
		name     string
		card     Card
		expected CardStatus
	}{
		{"never reviewed", Card{Repetitions: 0, Interval: 0}, StatusNew},
		{"short interval", Card{Repetitions: 2, Interval: 6}, StatusLearning},
		{"medium interval", Card{Repetitions: 3, Interval: 15}, StatusYoung},
		{"long interval", Card{Repetitions: 6, Interval: 21}, StatusMature},
		{"new outranks interval", Card{Repetitions: 0, Interval: 30}, StatusNew},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.card.Status(); got != tc.expected {
				t.Errorf("Expected status %q, but got %q", tc.expected, got)
			}
		})
	}
}
